package commentservice

import (
	"context"
	"database/sql"

	"github.com/mizutamauma/bloghub/internal/common"
	"github.com/mizutamauma/bloghub/internal/feed"
)

func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{m: newCommentModel(db)}
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

// ListComments returns one page of a blog's comments, oldest first.
func (s *CommentService) ListComments(ctx context.Context, blogID int, cursor string) (*CommentFeed, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.blogExists(ctx, blogID); err != nil {
		return nil, err
	}

	q := &feed.Query{Mode: feed.SortOldest}

	if cursor != "" {
		decoded, err := feed.DecodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		q.Cursor = decoded
	}

	results, count, err := s.m.feedPage(ctx, blogID, q)
	if err != nil {
		return nil, err
	}

	f := &CommentFeed{
		Results:          results,
		RemainingResults: count - len(results),
	}

	if len(results) != count && len(results) > 0 {
		last := results[len(results)-1]
		token := feed.OldestCursor(last.CreatedAt, last.ID).Encode()
		f.NextCursor = &token
	}

	return f, nil
}

type CreateCommentRequest struct {
	BlogID  int    `json:"blog_id"`
	Content string `json:"content"`
	UserID  int    `json:"user_id"`
}

func (s *CommentService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, req.BlogID, "blog_id")
	validateInt(v, req.UserID, "user_id")
	validateContent(v, req.Content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comment := &Comment{
		BlogID:  req.BlogID,
		UserID:  req.UserID,
		Content: req.Content,
	}

	err := s.m.insert(ctx, comment)
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// UpdateComment replaces a comment's content. Only the owner can update; a
// missing comment and a foreign owner both report not-found.
func (s *CommentService) UpdateComment(ctx context.Context, commentID, userID int, content string) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, commentID, "comment_id")
	validateInt(v, userID, "user_id")
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.updateComment(ctx, commentID, userID, content)
}

// DeleteComment deletes a comment and cascades to its likes.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID int) error {
	v := common.NewValidator()
	validateInt(v, commentID, "comment_id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteComment(ctx, commentID, userID)
}

// LikeComment records that a user likes a comment. Liking the same comment
// twice fails with ErrAlreadyLiked.
func (s *CommentService) LikeComment(ctx context.Context, userID, commentID int) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	validateInt(v, commentID, "comment_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.likeComment(ctx, userID, commentID)
}

// UnlikeComment removes a user's like. Unliking a comment the user never
// liked fails with ErrNotLiked.
func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID int) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	validateInt(v, commentID, "comment_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.unlikeComment(ctx, userID, commentID)
}
