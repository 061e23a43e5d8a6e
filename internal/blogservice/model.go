package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mizutamauma/bloghub/internal/common"
	"github.com/mizutamauma/bloghub/internal/feed"
)

var (
	ErrUserForeignKey = errors.New("user_id does not exist")
	ErrAlreadyLiked   = errors.New("blog already liked")
	ErrNotLiked       = errors.New("blog not liked")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (user_id, title, description, banner, category, content, time_to_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, heart_count, created_at, updated_at, version`

	args := []any{blog.UserID, blog.Title, blog.Description, blog.Banner, blog.Category, blog.Content, blog.TimeToRead}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.ID, &blog.HeartCount, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getBlogByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT b.id, b.title, b.description, b.banner, b.category, b.content, b.time_to_read, b.heart_count, b.user_id, b.created_at, b.updated_at, b.version, u.username
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.id = $1`

	var blog Blog
	err := m.db.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.Description, &blog.Banner, &blog.Category, &blog.Content, &blog.TimeToRead, &blog.HeartCount, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version, &blog.Username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

func (m *BlogModel) getBlogLikes(ctx context.Context, blogID int) ([]BlogLike, error) {
	query := `
		SELECT l.id, l.user_id, u.username
		FROM blog_likes l
		JOIN users u ON l.user_id = u.id
		WHERE l.blog_id = $1
		ORDER BY l.id`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []BlogLike
	for rows.Next() {
		var like BlogLike
		err := rows.Scan(&like.ID, &like.UserID, &like.Username)
		if err != nil {
			return nil, err
		}
		likes = append(likes, like)
	}

	return likes, rows.Err()
}

func (m *BlogModel) updateBlog(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, description = $2, banner = $3, category = $4, content = $5, time_to_read = $6, updated_at = now(), version = version + 1
		WHERE id = $7 AND user_id = $8 AND version = $9
		RETURNING updated_at, version`

	args := []any{blog.Title, blog.Description, blog.Banner, blog.Category, blog.Content, blog.TimeToRead, blog.ID, blog.UserID, blog.Version}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.UpdatedAt, &blog.Version)
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

// deleteBlog removes a blog and everything that references it, children
// first, in a single transaction: the likes of its comments, its comments,
// its own likes, then the blog row. A failure at any step rolls the whole
// cascade back so partial cleanup is never committed.
func (m *BlogModel) deleteBlog(ctx context.Context, blogID, userID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Missing blog and foreign owner produce the same error on purpose.
	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM blogs WHERE id = $1 AND user_id = $2", blogID, userID).Scan(&exists)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	steps := []string{
		"DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE blog_id = $1)",
		"DELETE FROM comments WHERE blog_id = $1",
		"DELETE FROM blog_likes WHERE blog_id = $1",
		"DELETE FROM blogs WHERE id = $1",
	}

	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, blogID); err != nil {
			return fmt.Errorf("cascade delete of blog %d: %w", blogID, err)
		}
	}

	return tx.Commit()
}

// feedPage runs a feed query and returns one page of rows plus the count of
// all rows matching the same predicate, continuation included. The page is the
// last one exactly when len(page) equals the count.
func (m *BlogModel) feedPage(ctx context.Context, q *feed.Query) ([]Blog, int, error) {
	where, args, err := q.Where()
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, banner, category, time_to_read, heart_count, user_id,
			(SELECT username FROM users WHERE users.id = blogs.user_id) AS username,
			created_at, updated_at, version
		FROM blogs
		WHERE %s
		ORDER BY %s
		LIMIT %d`, where, q.OrderBy(), q.PageLimit())

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		err := rows.Scan(&blog.ID, &blog.Title, &blog.Description, &blog.Banner, &blog.Category, &blog.TimeToRead, &blog.HeartCount, &blog.UserID, &blog.Username, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM blogs WHERE %s", where)
	if err := m.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	return blogs, count, nil
}

// likeBlog inserts the like row and bumps the denormalized counter in one
// transaction. The unique (user_id, blog_id) constraint makes a concurrent
// duplicate like fail on insert rather than double-increment.
func (m *BlogModel) likeBlog(ctx context.Context, userID, blogID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "INSERT INTO blog_likes (user_id, blog_id) VALUES ($1, $2)", userID, blogID)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "blog_likes_user_id_blog_id_key"):
			return ErrAlreadyLiked
		case common.ForeignKeyViolation(err, "blog_likes_blog_id_fkey"):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	res, err := tx.ExecContext(ctx, "UPDATE blogs SET heart_count = heart_count + 1 WHERE id = $1", blogID)
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

// unlikeBlog reverses likeBlog: delete the like row, then decrement, in one
// transaction. Zero deleted rows means the user never liked this blog.
func (m *BlogModel) unlikeBlog(ctx context.Context, userID, blogID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM blog_likes WHERE user_id = $1 AND blog_id = $2", userID, blogID)
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

	res, err = tx.ExecContext(ctx, "UPDATE blogs SET heart_count = heart_count - 1 WHERE id = $1", blogID)
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
