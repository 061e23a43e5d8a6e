package blogservice

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMarkdown(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no script tag",
			input: "Hello, World!",
			want:  "Hello, World!",
		},
		{
			name:  "script tag",
			input: "<script>alert('Hello, World!');</script>",
			want:  "",
		},
		{
			name:  "mixed case with attributes",
			input: `before <SCRIPT SRC="evil.js"></SCRIPT> after`,
			want:  "before  after",
		},
		{
			name:  "surrounding markdown kept",
			input: "# Title\n<script>alert(1);</script>\nbody",
			want:  "# Title\n\nbody",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := sanitizeMarkdown(tc.input)
			assert.Equal(t, tc.want, output)
		})
	}
}

func TestDescribe(t *testing.T) {
	short := "short content"
	assert.Equal(t, short, describe(short))

	long := strings.Repeat("x", 500)
	assert.Equal(t, long[:200], describe(long))

	// a multi-byte rune straddling the cut must not be split
	multibyte := strings.Repeat("x", 199) + strings.Repeat("日", 100)
	got := describe(multibyte)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, multibyte[:199], got)
}

func TestReadingTime(t *testing.T) {
	testCases := []struct {
		length int
		want   int
	}{
		{length: 1, want: 1},
		{length: 300, want: 1},
		{length: 301, want: 2},
		{length: 900, want: 3},
	}

	for _, tc := range testCases {
		content := strings.Repeat("a", tc.length)
		assert.Equal(t, tc.want, readingTime(content))
	}
}
