package model

import (
	"time"

	"github.com/Guyuepp/go-clean-social/domain"
)

type Follow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	FollowerID  int64 `gorm:"column:follower_id;not null;uniqueIndex:idx_follow_pair,priority:1"`
	FollowingID int64 `gorm:"column:following_id;not null;uniqueIndex:idx_follow_pair,priority:2;index"`
	CreatedAt   time.Time
}

func (Follow) TableName() string {
	return "follow"
}

func NewFollowFromDomain(f *domain.Follow) *Follow {
	return &Follow{
		FollowerID:  f.FollowerID,
		FollowingID: f.FollowingID,
		CreatedAt:   f.CreatedAt,
	}
}
