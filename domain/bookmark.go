package domain

import (
	"context"
	"time"
)

// Bookmark is a relation record: at most one per (AuthorID, PostID).
type Bookmark struct {
	AuthorID  int64
	PostID    int64
	CreatedAt time.Time
}

type BookmarkRepository interface {
	// Store returns ErrConflict if the pair already exists.
	Store(ctx context.Context, b *Bookmark) error
	Exists(ctx context.Context, authorID, postID int64) (bool, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, authorID, postID int64) (bool, error)
	// FetchBookmarkedPosts returns the subset of postIDs authorID bookmarked.
	FetchBookmarkedPosts(ctx context.Context, authorID int64, postIDs []int64) ([]int64, error)
	// FetchPostIDsByAuthor pages through authorID's bookmarks, newest first.
	FetchPostIDsByAuthor(ctx context.Context, authorID int64, offset, limit int64) ([]int64, error)
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
}

type BookmarkUsecase interface {
	// Toggle bookmarks the post if it is not bookmarked yet and removes the
	// bookmark otherwise. It returns the resulting state.
	Toggle(ctx context.Context, authorID, postID int64) (bookmarked bool, err error)
}
