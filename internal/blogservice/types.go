package blogservice

import (
	"database/sql"
	"time"

	"github.com/mizutamauma/bloghub/internal/common"
)

// Categories is the closed set of blog categories.
var Categories = []string{"AI", "Cloud computing", "Big Data", "Security", "DevOps", "Blockchain"}

// DefaultBanner is stored when a blog is created without a banner image.
const DefaultBanner = "default"

type Blog struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	// Description is derived from Content; it is recomputed whenever Content changes.
	Description string `json:"description"`
	Banner      string `json:"banner"`
	Category    string `json:"category"`
	// Content is stored in Markdown format. Feed responses omit it.
	Content string `json:"content,omitempty"`
	// TimeToRead is derived from Content, in minutes.
	TimeToRead int `json:"time_to_read"`
	// HeartCount is a denormalized tally of the blog_likes rows for this blog.
	HeartCount int        `json:"heart_count"`
	UserID     int        `json:"user_id"`
	Username   string     `json:"username,omitempty"`
	Likes      []BlogLike `json:"likes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

type BlogLike struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// BlogFeed is the response envelope for paginated blog listings.
type BlogFeed struct {
	Results          []Blog  `json:"results"`
	RemainingResults int     `json:"remainingResults"`
	NextCursor       *string `json:"next_cursor"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache

	// bannerBaseURL is the trusted host prefix an uploaded banner URL must carry.
	bannerBaseURL string
}
