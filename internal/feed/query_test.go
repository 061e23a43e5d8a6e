package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryWhere(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		query         *Query
		expectedWhere string
		expectedArgs  []any
	}{
		{
			name:          "no filters",
			query:         &Query{Mode: SortLatest},
			expectedWhere: "TRUE",
			expectedArgs:  nil,
		},
		{
			name:          "title filter",
			query:         &Query{Mode: SortLatest, Title: "kubernetes"},
			expectedWhere: "title ILIKE '%' || $1 || '%'",
			expectedArgs:  []any{"kubernetes"},
		},
		{
			name:          "title and category filters",
			query:         &Query{Mode: SortLatest, Title: "go", Category: "DevOps"},
			expectedWhere: "title ILIKE '%' || $1 || '%' AND category = $2",
			expectedArgs:  []any{"go", "DevOps"},
		},
		{
			name:          "owner scoped",
			query:         &Query{Mode: SortLatest, OwnerID: 7},
			expectedWhere: "user_id = $1",
			expectedArgs:  []any{7},
		},
		{
			name:          "latest continuation",
			query:         &Query{Mode: SortLatest, Cursor: LatestCursor(createdAt, 42)},
			expectedWhere: "(created_at <= $1 AND id < $2)",
			expectedArgs:  []any{createdAt, 42},
		},
		{
			name:          "favorite continuation",
			query:         &Query{Mode: SortFavorite, Cursor: FavoriteCursor(5, createdAt, 42)},
			expectedWhere: "(heart_count < $1 OR (heart_count = $1 AND created_at <= $2 AND id < $3))",
			expectedArgs:  []any{5, createdAt, 42},
		},
		{
			name:          "oldest continuation",
			query:         &Query{Mode: SortOldest, Cursor: OldestCursor(createdAt, 42)},
			expectedWhere: "(created_at >= $1 AND id > $2)",
			expectedArgs:  []any{createdAt, 42},
		},
		{
			name:          "filters before continuation",
			query:         &Query{Mode: SortLatest, Category: "AI", Cursor: LatestCursor(createdAt, 42)},
			expectedWhere: "category = $1 AND (created_at <= $2 AND id < $3)",
			expectedArgs:  []any{"AI", createdAt, 42},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			where, args, err := tc.query.Where()
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedWhere, where)

			assert.Len(t, args, len(tc.expectedArgs))
			for i, expected := range tc.expectedArgs {
				if expectedTime, ok := expected.(time.Time); ok {
					gotTime, ok := args[i].(time.Time)
					assert.True(t, ok)
					assert.True(t, gotTime.Equal(expectedTime))
					continue
				}
				assert.Equal(t, expected, args[i])
			}
		})
	}
}

func TestQueryWhereModeMismatch(t *testing.T) {
	q := &Query{Mode: SortFavorite, Cursor: LatestCursor(time.Now(), 1)}

	_, _, err := q.Where()
	assert.ErrorIs(t, err, ErrMalformedCursor)
}

func TestQueryPageLimit(t *testing.T) {
	assert.Equal(t, PageSize, (&Query{}).PageLimit())
	assert.Equal(t, PageSize, (&Query{Limit: -3}).PageLimit())
	assert.Equal(t, 2, (&Query{Limit: 2}).PageLimit())
}

func TestQueryOrderBy(t *testing.T) {
	assert.Equal(t, "created_at DESC, id DESC", (&Query{Mode: SortLatest}).OrderBy())
	assert.Equal(t, "heart_count DESC, created_at DESC, id DESC", (&Query{Mode: SortFavorite}).OrderBy())
	assert.Equal(t, "created_at ASC, id ASC", (&Query{Mode: SortOldest}).OrderBy())
}
