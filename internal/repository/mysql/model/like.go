package model

import (
	"fmt"
	"time"

	"github.com/Guyuepp/go-clean-social/domain"
)

// Like stores the post/comment union as two nullable columns. Exactly one of
// them is set; each has its own unique index with user_id.
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_like_user_post,priority:1;uniqueIndex:idx_like_user_comment,priority:1"`
	PostID    *int64    `gorm:"column:post_id;uniqueIndex:idx_like_user_post,priority:2;index"`
	CommentID *int64    `gorm:"column:comment_id;uniqueIndex:idx_like_user_comment,priority:2;index"`
	CreatedAt time.Time
}

func (Like) TableName() string {
	return "likes"
}

func NewLikeFromDomain(l *domain.Like) (*Like, error) {
	m := &Like{
		UserID:    l.AuthorID,
		CreatedAt: l.CreatedAt,
	}
	switch t := l.Target.(type) {
	case domain.PostTarget:
		id := t.PostID
		m.PostID = &id
	case domain.CommentTarget:
		id := t.CommentID
		m.CommentID = &id
	default:
		return nil, fmt.Errorf("%w: like without target", domain.ErrBadParamInput)
	}
	return m, nil
}

func (m *Like) ToDomain() (domain.Like, error) {
	var target domain.LikeTarget
	switch {
	case m.PostID != nil && m.CommentID == nil:
		target = domain.PostTarget{PostID: *m.PostID}
	case m.CommentID != nil && m.PostID == nil:
		target = domain.CommentTarget{CommentID: *m.CommentID}
	default:
		return domain.Like{}, fmt.Errorf("like %d: exactly one of post_id and comment_id must be set", m.ID)
	}
	return domain.Like{
		AuthorID:  m.UserID,
		Target:    target,
		CreatedAt: m.CreatedAt,
	}, nil
}

// TargetColumn returns the column holding ids of kind.
func TargetColumn(kind domain.TargetKind) (string, error) {
	switch kind {
	case domain.TargetPost:
		return "post_id", nil
	case domain.TargetComment:
		return "comment_id", nil
	default:
		return "", fmt.Errorf("%w: unknown like target kind %d", domain.ErrBadParamInput, kind)
	}
}
