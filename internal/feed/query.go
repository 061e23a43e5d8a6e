package feed

import (
	"fmt"
	"strings"
)

// Query describes one page of a feed: the user-supplied filters, the sort
// mode, and the optional continuation cursor from the previous page.
type Query struct {
	Title    string // case-insensitive substring filter, empty means any
	Category string // exact match, empty means any
	OwnerID  int    // owner equality constraint, zero means any
	Mode     SortMode
	Cursor   *Cursor
	Limit    int
}

// PageLimit returns the effective page size.
func (q *Query) PageLimit() int {
	if q.Limit < 1 {
		return PageSize
	}
	return q.Limit
}

// OrderBy returns the ORDER BY clause for the query's sort mode.
func (q *Query) OrderBy() string {
	switch q.Mode {
	case SortFavorite:
		return "heart_count DESC, created_at DESC, id DESC"
	case SortOldest:
		return "created_at ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// Where builds the predicate for the query: the filter constraints plus, when
// a cursor is present, the continuation condition that selects rows strictly
// after the last-seen row in the mode's sort order. The same predicate is
// used for the page fetch and the count query, so len(page) == count exactly
// on the last page.
func (q *Query) Where() (string, []any, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Title != "" {
		conds = append(conds, fmt.Sprintf("title ILIKE '%%' || %s || '%%'", arg(q.Title)))
	}

	if q.Category != "" {
		conds = append(conds, fmt.Sprintf("category = %s", arg(q.Category)))
	}

	if q.OwnerID > 0 {
		conds = append(conds, fmt.Sprintf("user_id = %s", arg(q.OwnerID)))
	}

	if q.Cursor != nil {
		cond, err := q.continuation(arg)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, cond)
	}

	if len(conds) == 0 {
		return "TRUE", nil, nil
	}

	return strings.Join(conds, " AND "), args, nil
}

func (q *Query) continuation(arg func(any) string) (string, error) {
	// A cursor issued for a different sort mode must not be reinterpreted.
	if q.Cursor.Mode != q.Mode {
		return "", ErrMalformedCursor
	}

	createdAt, err := q.Cursor.CreatedAt()
	if err != nil {
		return "", err
	}

	id, err := q.Cursor.ID()
	if err != nil {
		return "", err
	}

	switch q.Mode {
	case SortFavorite:
		heartCount, err := q.Cursor.HeartCount()
		if err != nil {
			return "", err
		}

		h := arg(heartCount)
		return fmt.Sprintf("(heart_count < %s OR (heart_count = %s AND created_at <= %s AND id < %s))",
			h, h, arg(createdAt), arg(id)), nil

	case SortOldest:
		return fmt.Sprintf("(created_at >= %s AND id > %s)", arg(createdAt), arg(id)), nil

	default:
		// Rows are only excluded by id once timestamps tie; a row inserted
		// with the exact boundary timestamp can be skipped. Accepted
		// approximation, not a strict keyset guarantee.
		return fmt.Sprintf("(created_at <= %s AND id < %s)", arg(createdAt), arg(id)), nil
	}
}
