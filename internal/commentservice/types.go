package commentservice

import (
	"database/sql"
	"time"
)

type Comment struct {
	ID      int    `json:"id"`
	BlogID  int    `json:"blog_id"`
	Content string `json:"content"`
	// HeartCount is a denormalized tally of the comment_likes rows for this comment.
	HeartCount int       `json:"heart_count"`
	UserID     int       `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CommentFeed is the response envelope for paginated comment listings.
type CommentFeed struct {
	Results          []Comment `json:"results"`
	RemainingResults int       `json:"remainingResults"`
	NextCursor       *string   `json:"next_cursor"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m *CommentModel
}
