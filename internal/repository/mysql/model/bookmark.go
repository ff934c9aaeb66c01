package model

import (
	"time"

	"github.com/Guyuepp/go-clean-social/domain"
)

type Bookmark struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	UserID    int64 `gorm:"column:user_id;not null;uniqueIndex:idx_bookmark_user_post,priority:1"`
	PostID    int64 `gorm:"column:post_id;not null;uniqueIndex:idx_bookmark_user_post,priority:2;index"`
	CreatedAt time.Time
}

func (Bookmark) TableName() string {
	return "bookmark"
}

func NewBookmarkFromDomain(b *domain.Bookmark) *Bookmark {
	return &Bookmark{
		UserID:    b.AuthorID,
		PostID:    b.PostID,
		CreatedAt: b.CreatedAt,
	}
}
