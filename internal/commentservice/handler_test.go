package commentservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mizutamauma/bloghub/internal/common"
	"github.com/mizutamauma/bloghub/internal/feed"
)

func setupTestEnvironment(t *testing.T) (*CommentService, *sql.DB, func() error, int, int, error) {
	db := common.TestDB("file://../../migrations", t)

	var userID int
	err := db.QueryRow("INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id",
		"testuser", "testuser@example.com", []byte("notarealhash")).Scan(&userID)
	if err != nil {
		return nil, nil, nil, 0, 0, err
	}

	var blogID int
	err = db.QueryRow(`
		INSERT INTO blogs (user_id, title, description, category, content, time_to_read)
		VALUES ($1, 'Test Blog', 'A test blog.', 'AI', 'This is a test blog.', 1)
		RETURNING id`, userID).Scan(&blogID)
	if err != nil {
		return nil, nil, nil, 0, 0, err
	}

	cleanup := func() error {
		for _, table := range []string{"comment_likes", "comments"} {
			_, err := db.Exec("DELETE FROM " + table)
			if err != nil {
				return err
			}
		}
		return nil
	}

	return NewCommentService(db), db, cleanup, userID, blogID, nil
}

// createTestComment inserts a comment row directly, pinning created_at so
// feed ordering is deterministic.
func createTestComment(db *sql.DB, blogID, userID int, content string, createdAt time.Time) (int, error) {
	var id int
	err := db.QueryRow("INSERT INTO comments (blog_id, user_id, content, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		blogID, userID, content, createdAt).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func TestCreateComment(t *testing.T) {
	s, db, cleanup, userID, blogID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	testCases := []struct {
		name        string
		req         *CreateCommentRequest
		expectedErr error
	}{
		{
			name: "valid comment",
			req: &CreateCommentRequest{
				BlogID:  blogID,
				Content: "First!",
				UserID:  userID,
			},
			expectedErr: nil,
		},
		{
			name: "empty content",
			req: &CreateCommentRequest{
				BlogID: blogID,
				UserID: userID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"content": "must be provided"}},
		},
		{
			name: "empty blog ID",
			req: &CreateCommentRequest{
				Content: "First!",
				UserID:  userID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"blog_id": "must be greater than zero"}},
		},
		{
			name: "missing blog",
			req: &CreateCommentRequest{
				BlogID:  999,
				Content: "First!",
				UserID:  userID,
			},
			expectedErr: common.ErrRecordNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			comment, err := s.CreateComment(ctx, tc.req)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.NotZero(t, comment.ID)

				var count int
				err := db.QueryRow("SELECT COUNT(*) FROM comments WHERE blog_id = $1", blogID).Scan(&count)
				assert.NoError(t, err)
				assert.Equal(t, 1, count)
			}

			t.Cleanup(func() {
				err := cleanup()
				assert.NoError(t, err)
			})
		})
	}
}

func TestUpdateComment(t *testing.T) {
	s, db, cleanup, userID, blogID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	var otherUserID int
	err = db.QueryRow("INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id",
		"otheruser", "otheruser@example.com", []byte("notarealhash")).Scan(&otherUserID)
	assert.NoError(t, err)

	commentID, err := createTestComment(db, blogID, userID, "First!", time.Now())
	assert.NoError(t, err)

	testCases := []struct {
		name        string
		commentID   int
		userID      int
		expectedErr error
	}{
		{
			name:        "valid update",
			commentID:   commentID,
			userID:      userID,
			expectedErr: nil,
		},
		{
			name:        "foreign owner",
			commentID:   commentID,
			userID:      otherUserID,
			expectedErr: common.ErrRecordNotFound,
		},
		{
			name:        "missing comment",
			commentID:   999,
			userID:      userID,
			expectedErr: common.ErrRecordNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			comment, err := s.UpdateComment(ctx, tc.commentID, tc.userID, "Edited.")
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.Equal(t, "Edited.", comment.Content)

				var content string
				err := db.QueryRow("SELECT content FROM comments WHERE id = $1", tc.commentID).Scan(&content)
				assert.NoError(t, err)
				assert.Equal(t, "Edited.", content)
			}
		})
	}

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestDeleteComment(t *testing.T) {
	s, db, cleanup, userID, blogID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	commentID, err := createTestComment(db, blogID, userID, "First!", time.Now())
	assert.NoError(t, err)

	err = s.LikeComment(context.Background(), userID, commentID)
	assert.NoError(t, err)

	testCases := []struct {
		name        string
		commentID   int
		userID      int
		expectedErr error
	}{
		{
			name:        "foreign owner",
			commentID:   commentID,
			userID:      999,
			expectedErr: common.ErrRecordNotFound,
		},
		{
			name:        "valid delete",
			commentID:   commentID,
			userID:      userID,
			expectedErr: nil,
		},
		{
			name:        "missing comment",
			commentID:   commentID,
			userID:      userID,
			expectedErr: common.ErrRecordNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			err := s.DeleteComment(ctx, tc.commentID, tc.userID)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				for _, table := range []string{"comments", "comment_likes"} {
					var count int
					err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
					assert.NoError(t, err)
					assert.Equal(t, 0, count, table)
				}
			}
		})
	}

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestListComments(t *testing.T) {
	s, db, cleanup, userID, blogID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	ids := make([]int, 12)
	for i := 0; i < 12; i++ {
		id, err := createTestComment(db, blogID, userID, "Comment", base.Add(time.Duration(i)*time.Minute))
		assert.NoError(t, err)
		ids[i] = id
	}

	ctx := context.Background()

	page1, err := s.ListComments(ctx, blogID, "")
	assert.NoError(t, err)
	assert.Len(t, page1.Results, 10)
	assert.Equal(t, 2, page1.RemainingResults)
	assert.NotNil(t, page1.NextCursor)

	// oldest first
	assert.Equal(t, ids[0], page1.Results[0].ID)
	assert.Equal(t, ids[9], page1.Results[9].ID)
	assert.Equal(t, "testuser", page1.Results[0].Username)

	page2, err := s.ListComments(ctx, blogID, *page1.NextCursor)
	assert.NoError(t, err)
	assert.Len(t, page2.Results, 2)
	assert.Equal(t, 0, page2.RemainingResults)
	assert.Nil(t, page2.NextCursor)
	assert.Equal(t, ids[10], page2.Results[0].ID)
	assert.Equal(t, ids[11], page2.Results[1].ID)

	// a listing for a blog that does not exist is an error, not an empty feed
	_, err = s.ListComments(ctx, 999, "")
	assert.Equal(t, common.ErrRecordNotFound, err)

	_, err = s.ListComments(ctx, blogID, "not-base64!")
	assert.ErrorIs(t, err, feed.ErrMalformedCursor)

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestLikeUnlikeComment(t *testing.T) {
	s, db, cleanup, userID, blogID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	commentID, err := createTestComment(db, blogID, userID, "First!", time.Now())
	assert.NoError(t, err)

	ctx := context.Background()

	heartCount := func() int {
		var n int
		err := db.QueryRow("SELECT heart_count FROM comments WHERE id = $1", commentID).Scan(&n)
		assert.NoError(t, err)
		return n
	}

	err = s.LikeComment(ctx, userID, commentID)
	assert.NoError(t, err)
	assert.Equal(t, 1, heartCount())

	err = s.LikeComment(ctx, userID, commentID)
	assert.Equal(t, ErrAlreadyLiked, err)
	assert.Equal(t, 1, heartCount())

	err = s.UnlikeComment(ctx, userID, commentID)
	assert.NoError(t, err)
	assert.Equal(t, 0, heartCount())

	err = s.UnlikeComment(ctx, userID, commentID)
	assert.Equal(t, ErrNotLiked, err)

	err = s.LikeComment(ctx, userID, 999)
	assert.Equal(t, common.ErrRecordNotFound, err)

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}
