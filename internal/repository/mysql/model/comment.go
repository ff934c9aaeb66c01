package model

import (
	"time"

	"github.com/Guyuepp/go-clean-social/domain"
)

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	PostID    int64     `gorm:"column:post_id;not null;index:idx_comment_post_created,priority:1"`
	ParentID  *int64    `gorm:"column:parent_id;index"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_comment_post_created,priority:2"`
	UpdatedAt time.Time
}

func (Comment) TableName() string {
	return "comment"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		UserID:    c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		ParentID:  m.ParentID,
		AuthorID:  m.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
