package domain

import (
	"context"
	"time"
)

// Follow is a relation record: at most one per (FollowerID, FollowingID), and
// FollowerID never equals FollowingID.
type Follow struct {
	FollowerID  int64
	FollowingID int64
	CreatedAt   time.Time
}

// FollowPage is one page of followers or followings.
type FollowPage struct {
	Users      []User
	Page       int64
	TotalPages int64
	TotalCount int64
}

type FollowRepository interface {
	// Store returns ErrConflict if the pair already exists.
	Store(ctx context.Context, f *Follow) error
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, followerID, followingID int64) (bool, error)
	// FetchFollowerIDs returns who follows userID, newest first.
	FetchFollowerIDs(ctx context.Context, userID int64, offset, limit int64) ([]int64, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	// FetchFollowingIDs returns who userID follows, newest first.
	FetchFollowingIDs(ctx context.Context, userID int64, offset, limit int64) ([]int64, error)
	CountFollowings(ctx context.Context, userID int64) (int64, error)
}

type FollowUsecase interface {
	// Toggle follows followingID if not followed yet, unfollows otherwise.
	Toggle(ctx context.Context, followerID, followingID int64) (following bool, err error)
	Followers(ctx context.Context, username string, p Pagination) (FollowPage, error)
	Followings(ctx context.Context, username string, p Pagination) (FollowPage, error)
}
