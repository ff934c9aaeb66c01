package domain

import (
	"context"
	"time"
)

// Post is representing the Post data struct
type Post struct {
	ID          int64
	AuthorID    int64
	Content     string
	Tags        string
	Link        string
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MaxPostLength is the maximum number of runes kept in a post body.
const MaxPostLength = 5000

// PostPatch carries the fields of an update; nil fields are left unchanged.
type PostPatch struct {
	Content *string
	Tags    *string
	Link    *string
}

// PostView is a post enriched for a viewer.
type PostView struct {
	Post
	Author             *User
	TotalLikes         int64
	TotalComments      int64
	LikedByViewer      bool
	BookmarkedByViewer bool
	IsMine             bool
}

// PostPage is one page of post views.
type PostPage struct {
	Items      []PostView
	Page       int64
	Limit      int64
	TotalPages int64
	TotalCount int64
}

func (p PostPage) HasNextPage() bool {
	return p.Page*p.Limit < p.TotalCount
}

func (p PostPage) HasPrevPage() bool {
	return p.Page > 1
}

// PostRepository defines the contract for post data persistence
type PostRepository interface {
	// GetByID returns ErrNotFound if the post doesn't exist.
	GetByID(ctx context.Context, id int64) (Post, error)
	// GetByIDs returns the posts found among ids in no particular order.
	GetByIDs(ctx context.Context, ids []int64) ([]Post, error)
	// FetchPublished pages through published posts, newest first.
	FetchPublished(ctx context.Context, offset, limit int64) ([]Post, error)
	CountPublished(ctx context.Context) (int64, error)
	// FetchByAuthor pages through one author's posts, newest first.
	FetchByAuthor(ctx context.Context, authorID int64, publishedOnly bool, offset, limit int64) ([]Post, error)
	CountByAuthor(ctx context.Context, authorID int64, publishedOnly bool) (int64, error)
	// FetchIDs returns ids greater than cursor in ascending order.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
	Store(ctx context.Context, p *Post) error
	// Update returns ErrNotFound if no row matched.
	Update(ctx context.Context, p *Post) error
	// Delete returns ErrNotFound if no row matched.
	Delete(ctx context.Context, id int64) error
}

type PostUsecase interface {
	Fetch(ctx context.Context, p Pagination, viewerID int64) (PostPage, error)
	FetchByAuthor(ctx context.Context, username string, p Pagination, viewerID int64) (PostPage, error)
	FetchBookmarked(ctx context.Context, viewerID int64, p Pagination) (PostPage, error)
	GetByID(ctx context.Context, id int64, viewerID int64) (PostView, error)
	Store(ctx context.Context, p *Post) error
	// Update applies patch to a post owned by authorID.
	Update(ctx context.Context, id int64, patch PostPatch, authorID int64) (Post, error)
	TogglePublish(ctx context.Context, id int64, authorID int64) (Post, error)
	// Delete removes a post owned by authorID with its comments, likes and bookmarks.
	Delete(ctx context.Context, id int64, authorID int64) error
	// InitBloomFilter loads every post id into the bloom filter.
	InitBloomFilter(ctx context.Context) error
}
