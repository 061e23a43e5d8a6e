package commentservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mizutamauma/bloghub/internal/common"
	"github.com/mizutamauma/bloghub/internal/feed"
)

var (
	ErrAlreadyLiked = errors.New("comment already liked")
	ErrNotLiked     = errors.New("comment not liked")
)

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

func (m *CommentModel) blogExists(ctx context.Context, blogID int) error {
	var exists int
	err := m.db.QueryRowContext(ctx, "SELECT 1 FROM blogs WHERE id = $1", blogID).Scan(&exists)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *CommentModel) insert(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (user_id, blog_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, heart_count, created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, comment.UserID, comment.BlogID, comment.Content).Scan(&comment.ID, &comment.HeartCount, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "comments_blog_id_fkey"):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *CommentModel) updateComment(ctx context.Context, id, userID int, content string) (*Comment, error) {
	query := `
		UPDATE comments
		SET content = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3
		RETURNING id, blog_id, content, heart_count, user_id, created_at, updated_at`

	var comment Comment
	err := m.db.QueryRowContext(ctx, query, content, id, userID).Scan(&comment.ID, &comment.BlogID, &comment.Content, &comment.HeartCount, &comment.UserID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &comment, nil
}

// deleteComment removes a comment and its likes in one transaction, likes
// first. A missing comment and a foreign owner both report not-found.
func (m *CommentModel) deleteComment(ctx context.Context, id, userID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM comments WHERE id = $1 AND user_id = $2", id, userID).Scan(&exists)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM comment_likes WHERE comment_id = $1", id); err != nil {
		return fmt.Errorf("cascade delete of comment %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id); err != nil {
		return fmt.Errorf("cascade delete of comment %d: %w", id, err)
	}

	return tx.Commit()
}

// feedPage runs an ascending-chronological feed query scoped to one blog and
// returns one page plus the count of rows matching the same predicate.
func (m *CommentModel) feedPage(ctx context.Context, blogID int, q *feed.Query) ([]Comment, int, error) {
	where, args, err := q.Where()
	if err != nil {
		return nil, 0, err
	}

	blogArg := len(args) + 1
	args = append(args, blogID)

	query := fmt.Sprintf(`
		SELECT id, blog_id, content, heart_count, user_id,
			(SELECT username FROM users WHERE users.id = comments.user_id) AS username,
			created_at, updated_at
		FROM comments
		WHERE %s AND blog_id = $%d
		ORDER BY %s
		LIMIT %d`, where, blogArg, q.OrderBy(), q.PageLimit())

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var comment Comment
		err := rows.Scan(&comment.ID, &comment.BlogID, &comment.Content, &comment.HeartCount, &comment.UserID, &comment.Username, &comment.CreatedAt, &comment.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM comments WHERE %s AND blog_id = $%d", where, blogArg)
	if err := m.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	return comments, count, nil
}

// likeComment and unlikeComment follow the same single-transaction counter
// protocol as blog likes, against comment_likes.
func (m *CommentModel) likeComment(ctx context.Context, userID, commentID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "INSERT INTO comment_likes (user_id, comment_id) VALUES ($1, $2)", userID, commentID)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "comment_likes_user_id_comment_id_key"):
			return ErrAlreadyLiked
		case common.ForeignKeyViolation(err, "comment_likes_comment_id_fkey"):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	res, err := tx.ExecContext(ctx, "UPDATE comments SET heart_count = heart_count + 1 WHERE id = $1", commentID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrRecordNotFound
	}

	return tx.Commit()
}

func (m *CommentModel) unlikeComment(ctx context.Context, userID, commentID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM comment_likes WHERE user_id = $1 AND comment_id = $2", userID, commentID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotLiked
	}

	res, err = tx.ExecContext(ctx, "UPDATE comments SET heart_count = heart_count - 1 WHERE id = $1", commentID)
	if err != nil {
		return err
	}

	rows, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrRecordNotFound
	}

	return tx.Commit()
}
