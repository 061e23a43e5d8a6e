package feed

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrMalformedCursor = errors.New("malformed cursor")

// SortMode selects the sort order and the continuation shape of a feed query.
type SortMode string

const (
	// SortLatest orders by created_at descending with id descending as the tie-break.
	SortLatest SortMode = "latest"
	// SortFavorite orders by heart_count descending, then created_at descending, then id descending.
	SortFavorite SortMode = "favorite"
	// SortOldest mirrors SortLatest with ascending comparisons. Used for comment feeds.
	SortOldest SortMode = "oldest"
)

// PageSize is the fixed number of rows returned per feed page.
const PageSize = 10

func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(s) {
	case SortLatest, SortFavorite, SortOldest:
		return SortMode(s), true
	default:
		return "", false
	}
}

// fieldCount is the number of sort-key values a cursor carries for a mode.
func fieldCount(mode SortMode) int {
	if mode == SortFavorite {
		return 3
	}
	return 2
}

// Cursor is the decoded form of an opaque pagination token: the sort mode it
// was issued for plus the sort-key values of the last-seen row, carried as
// strings. Accessors re-type the values before they are used in a predicate.
type Cursor struct {
	Mode   SortMode
	fields []string
}

func LatestCursor(createdAt time.Time, id int) *Cursor {
	return &Cursor{
		Mode:   SortLatest,
		fields: []string{createdAt.Format(time.RFC3339Nano), strconv.Itoa(id)},
	}
}

func FavoriteCursor(heartCount int, createdAt time.Time, id int) *Cursor {
	return &Cursor{
		Mode:   SortFavorite,
		fields: []string{strconv.Itoa(heartCount), createdAt.Format(time.RFC3339Nano), strconv.Itoa(id)},
	}
}

func OldestCursor(createdAt time.Time, id int) *Cursor {
	return &Cursor{
		Mode:   SortOldest,
		fields: []string{createdAt.Format(time.RFC3339Nano), strconv.Itoa(id)},
	}
}

// PageCursor builds the continuation cursor for the last row of a page,
// carrying exactly the fields the mode's predicate needs.
func PageCursor(mode SortMode, heartCount int, createdAt time.Time, id int) *Cursor {
	switch mode {
	case SortFavorite:
		return FavoriteCursor(heartCount, createdAt, id)
	case SortOldest:
		return OldestCursor(createdAt, id)
	default:
		return LatestCursor(createdAt, id)
	}
}

// Encode serializes the cursor to its opaque token form: base64 over the
// underscore-joined mode tag and field values. The format is not a public
// contract; clients must treat the token as a black box.
func (c *Cursor) Encode() string {
	payload := strings.Join(append([]string{string(c.Mode)}, c.fields...), "_")
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// DecodeCursor parses an opaque token. It fails with ErrMalformedCursor when
// the token is not valid base64, carries an unknown mode tag, or does not
// split into the field count the mode requires.
func DecodeCursor(token string) (*Cursor, error) {
	payload, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrMalformedCursor
	}

	parts := strings.Split(string(payload), "_")

	mode, ok := ParseSortMode(parts[0])
	if !ok {
		return nil, ErrMalformedCursor
	}

	if len(parts)-1 != fieldCount(mode) {
		return nil, ErrMalformedCursor
	}

	return &Cursor{Mode: mode, fields: parts[1:]}, nil
}

// HeartCount re-types the heart-count field. Only favorite cursors carry one.
func (c *Cursor) HeartCount() (int, error) {
	if c.Mode != SortFavorite {
		return 0, ErrMalformedCursor
	}
	return c.intField(0)
}

func (c *Cursor) CreatedAt() (time.Time, error) {
	i := 0
	if c.Mode == SortFavorite {
		i = 1
	}

	t, err := time.Parse(time.RFC3339Nano, c.fields[i])
	if err != nil {
		return time.Time{}, ErrMalformedCursor
	}

	return t, nil
}

func (c *Cursor) ID() (int, error) {
	return c.intField(len(c.fields) - 1)
}

func (c *Cursor) intField(i int) (int, error) {
	n, err := strconv.Atoi(c.fields[i])
	if err != nil {
		return 0, ErrMalformedCursor
	}
	return n, nil
}
