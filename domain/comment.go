package domain

import (
	"context"
	"time"
)

// MaxCommentLength is the maximum number of runes kept in a comment.
const MaxCommentLength = 2000

// Comment is a root comment on a post when ParentID is nil, and a reply to a
// root comment otherwise. Replies never have replies of their own.
type Comment struct {
	ID        int64
	PostID    int64
	ParentID  *int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot reports whether c is attached directly to a post.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// CommentView is a comment enriched for display.
type CommentView struct {
	Comment
	Author        *User
	LikeCount     int64
	HasReplies    bool
	LikedByViewer bool
}

// CommentPage is one page of root comments.
type CommentPage struct {
	Items      []CommentView
	Page       int64
	TotalPages int64
	TotalCount int64
}

// CommentUsecase represents the comment threading use cases.
type CommentUsecase interface {
	// ListRoots returns a page of root comments of a post, newest first.
	ListRoots(ctx context.Context, postID int64, p Pagination, viewerID int64) (CommentPage, error)
	// ListReplies returns every reply of a comment, oldest first.
	ListReplies(ctx context.Context, commentID int64, viewerID int64) ([]CommentView, error)
	// Create stores a root comment or a reply and backfills its ID.
	Create(ctx context.Context, c *Comment) error
	// Update replaces the content of a comment owned by authorID.
	Update(ctx context.Context, commentID int64, content string, authorID int64) (Comment, error)
	// UpdateReply is Update restricted to a reply of parentID.
	UpdateReply(ctx context.Context, commentID, parentID int64, content string, authorID int64) (Comment, error)
	// Delete removes a comment owned by authorID together with its replies.
	Delete(ctx context.Context, commentID int64, authorID int64) error
}

// CommentRepository is the comment store. It knows nothing about other
// entities; cross-entity work is composed by the usecases.
type CommentRepository interface {
	Store(ctx context.Context, c *Comment) error
	// GetByID returns ErrNotFound if the comment doesn't exist.
	GetByID(ctx context.Context, id int64) (Comment, error)
	// FetchRoots returns root comments of a post ordered by created_at DESC, id DESC.
	FetchRoots(ctx context.Context, postID int64, offset, limit int64) ([]Comment, error)
	// CountRoots counts root comments of a post.
	CountRoots(ctx context.Context, postID int64) (int64, error)
	// FetchReplies returns replies of parentID ordered by created_at ASC, id ASC.
	FetchReplies(ctx context.Context, parentID int64) ([]Comment, error)
	// CountRepliesByParents groups replies by parent id. Parents with no replies are absent.
	CountRepliesByParents(ctx context.Context, parentIDs []int64) (map[int64]int64, error)
	// CountByPosts groups every comment (roots and replies) by post id.
	CountByPosts(ctx context.Context, postIDs []int64) (map[int64]int64, error)
	// FetchIDsByPost returns the ids of every comment of a post.
	FetchIDsByPost(ctx context.Context, postID int64) ([]int64, error)
	// UpdateContent sets content and updated_at. Returns ErrNotFound if no row matched.
	UpdateContent(ctx context.Context, id int64, content string, updatedAt time.Time) error
	// Delete removes one comment. Returns ErrNotFound if no row matched.
	Delete(ctx context.Context, id int64) error
	// DeleteByParent removes every reply of parentID and returns how many went.
	DeleteByParent(ctx context.Context, parentID int64) (int64, error)
	// DeleteByPost removes every comment of a post.
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
}
