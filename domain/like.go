package domain

import (
	"context"
	"fmt"
	"time"
)

// TargetKind names the dimension a grouped like query runs over.
type TargetKind int8

const (
	TargetPost TargetKind = iota + 1
	TargetComment
)

func (k TargetKind) String() string {
	switch k {
	case TargetPost:
		return "post"
	case TargetComment:
		return "comment"
	default:
		return "unknown"
	}
}

// LikeTarget is what a like points at. It is either a PostTarget or a
// CommentTarget; no other implementations exist.
type LikeTarget interface {
	Kind() TargetKind
	TargetID() int64
	isLikeTarget()
}

type PostTarget struct {
	PostID int64
}

func (PostTarget) Kind() TargetKind  { return TargetPost }
func (t PostTarget) TargetID() int64 { return t.PostID }
func (PostTarget) isLikeTarget()     {}

type CommentTarget struct {
	CommentID int64
}

func (CommentTarget) Kind() TargetKind  { return TargetComment }
func (t CommentTarget) TargetID() int64 { return t.CommentID }
func (CommentTarget) isLikeTarget()     {}

// NewLikeTarget builds the target for kind and id.
func NewLikeTarget(kind TargetKind, id int64) (LikeTarget, error) {
	switch kind {
	case TargetPost:
		return PostTarget{PostID: id}, nil
	case TargetComment:
		return CommentTarget{CommentID: id}, nil
	default:
		return nil, fmt.Errorf("%w: unknown like target kind %d", ErrBadParamInput, kind)
	}
}

// Like is a relation record: at most one per (AuthorID, Target).
type Like struct {
	AuthorID  int64
	Target    LikeTarget
	CreatedAt time.Time
}

// LikeRepository is the like store. Uniqueness of (author, target) is enforced
// by the store; Store returns ErrConflict when it is violated.
type LikeRepository interface {
	Store(ctx context.Context, l *Like) error
	// Exists reports whether authorID likes target.
	Exists(ctx context.Context, authorID int64, target LikeTarget) (bool, error)
	// Delete removes the like and reports whether a row was removed.
	Delete(ctx context.Context, authorID int64, target LikeTarget) (bool, error)
	// CountByTargets groups likes by target id. Targets without likes are absent.
	CountByTargets(ctx context.Context, kind TargetKind, ids []int64) (map[int64]int64, error)
	// FetchLikedTargets returns the subset of ids authorID likes.
	FetchLikedTargets(ctx context.Context, kind TargetKind, ids []int64, authorID int64) ([]int64, error)
	// DeleteByTargets removes every like on the given targets.
	DeleteByTargets(ctx context.Context, kind TargetKind, ids []int64) (int64, error)
}

// LikeUsecase toggles likes.
type LikeUsecase interface {
	// Toggle likes target if authorID has not liked it yet and unlikes it
	// otherwise. It returns the resulting state.
	Toggle(ctx context.Context, authorID int64, target LikeTarget) (liked bool, err error)
}
