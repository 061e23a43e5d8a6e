package blogservice

import "unicode/utf8"

const (
	descriptionLength = 200
	readingSpeed      = 300 // characters per minute
)

// describe derives the feed description from the content. The cut is backed
// off to a rune boundary so the description stays valid UTF-8.
func describe(content string) string {
	if len(content) <= descriptionLength {
		return content
	}

	cut := descriptionLength
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

// readingTime derives the time-to-read in minutes, rounding up.
func readingTime(content string) int {
	return (len(content) + readingSpeed - 1) / readingSpeed
}
