package blogservice

import (
	"context"
	"database/sql"

	"github.com/mizutamauma/bloghub/internal/common"
	"github.com/mizutamauma/bloghub/internal/feed"
)

func NewBlogService(db *sql.DB, c *common.Cache, bannerBaseURL string) *BlogService {
	return &BlogService{m: newBlogModel(db), c: c, bannerBaseURL: bannerBaseURL}
}

type CreateBlogRequest struct {
	Title    string `json:"title"`
	Banner   string `json:"banner"`
	Category string `json:"category"`
	Content  string `json:"content"`
	UserID   int    `json:"user_id"`
}

// CreateBlog creates a new blog post. Description and time-to-read are
// derived from the content, never supplied by the caller.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateCategory(v, req.Category)
	validateContent(v, req.Content)
	validateBanner(v, req.Banner, s.bannerBaseURL)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	content := sanitizeMarkdown(req.Content)

	banner := req.Banner
	if banner == "" {
		banner = DefaultBanner
	}

	blog := &Blog{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: describe(content),
		Banner:      banner,
		Category:    req.Category,
		Content:     content,
		TimeToRead:  readingTime(content),
	}

	err := s.m.insert(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// GetBlogContent returns a blog post with its full content and its likes.
func (s *BlogService) GetBlogContent(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	key := common.CacheKeyBlogContent(id)
	if cached, ok := s.c.Get(key); ok {
		if blog, ok := cached.(*Blog); ok {
			return blog, nil
		}
	}

	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	likes, err := s.m.getBlogLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	blog.Likes = likes

	s.c.Set(key, blog)

	return blog, nil
}

type UpdateBlogRequest struct {
	ID       int    `json:"blog_id"`
	Title    string `json:"title"`
	Banner   string `json:"banner"`
	Category string `json:"category"`
	Content  string `json:"content"`
	UserID   int    `json:"user_id"`
}

// UpdateBlog applies the non-empty fields of the request to an existing blog.
// Only the owner can update; a missing blog and a foreign owner both report
// not-found. Changing the content recomputes description and time-to-read.
func (s *BlogService) UpdateBlog(ctx context.Context, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, req.ID, "blog_id")
	validateInt(v, req.UserID, "user_id")
	validateBanner(v, req.Banner, s.bannerBaseURL)
	if req.Category != "" {
		validateCategory(v, req.Category)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getBlogByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if blog.UserID != req.UserID {
		return nil, common.ErrRecordNotFound
	}

	if req.Title != "" {
		blog.Title = req.Title
	}

	if req.Banner != "" {
		blog.Banner = req.Banner
	}

	if req.Category != "" {
		blog.Category = req.Category
	}

	if req.Content != "" {
		content := sanitizeMarkdown(req.Content)
		blog.Content = content
		blog.Description = describe(content)
		blog.TimeToRead = readingTime(content)
	}

	v = common.NewValidator()
	validateTitle(v, blog.Title)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.updateBlog(ctx, blog)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyBlogContent(blog.ID))

	return blog, nil
}

// DeleteBlog deletes a blog post and cascades to its comments and likes.
// Only the owner can delete.
func (s *BlogService) DeleteBlog(ctx context.Context, blogID, userID int) error {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.deleteBlog(ctx, blogID, userID)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlogContent(blogID))

	return nil
}

type FeedRequest struct {
	Title    string
	Category string
	Sort     feed.SortMode
	Cursor   string
	OwnerID  int
}

// ListBlogs returns one page of the public blog feed. Sort is latest or
// favorite; title and category narrow the result set; the cursor resumes a
// previous listing.
func (s *BlogService) ListBlogs(ctx context.Context, req *FeedRequest) (*BlogFeed, error) {
	if req.Sort != feed.SortLatest && req.Sort != feed.SortFavorite {
		v := common.NewValidator()
		v.AddError("sort", "must be latest or favorite")
		return nil, v.ValidationError()
	}

	q := &feed.Query{
		Title:    req.Title,
		Category: req.Category,
		OwnerID:  req.OwnerID,
		Mode:     req.Sort,
	}

	if req.Cursor != "" {
		cursor, err := feed.DecodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}
		q.Cursor = cursor
	}

	results, count, err := s.m.feedPage(ctx, q)
	if err != nil {
		return nil, err
	}

	return buildBlogFeed(results, count, req.Sort), nil
}

// ListUserBlogs returns one page of the calling user's own blogs, newest
// first, with the same filters and cursor semantics as the public feed.
func (s *BlogService) ListUserBlogs(ctx context.Context, userID int, title, category, cursor string) (*BlogFeed, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.ListBlogs(ctx, &FeedRequest{
		Title:    title,
		Category: category,
		Sort:     feed.SortLatest,
		Cursor:   cursor,
		OwnerID:  userID,
	})
}

func buildBlogFeed(results []Blog, count int, mode feed.SortMode) *BlogFeed {
	f := &BlogFeed{
		Results:          results,
		RemainingResults: count - len(results),
	}

	if len(results) != count && len(results) > 0 {
		last := results[len(results)-1]
		token := feed.PageCursor(mode, last.HeartCount, last.CreatedAt, last.ID).Encode()
		f.NextCursor = &token
	}

	return f
}

// LikeBlog records that a user likes a blog. Liking the same blog twice
// fails with ErrAlreadyLiked.
func (s *BlogService) LikeBlog(ctx context.Context, userID, blogID int) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	validateInt(v, blogID, "blog_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.likeBlog(ctx, userID, blogID)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlogContent(blogID))

	return nil
}

// UnlikeBlog removes a user's like. Unliking a blog the user never liked
// fails with ErrNotLiked.
func (s *BlogService) UnlikeBlog(ctx context.Context, userID, blogID int) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	validateInt(v, blogID, "blog_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.unlikeBlog(ctx, userID, blogID)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlogContent(blogID))

	return nil
}
