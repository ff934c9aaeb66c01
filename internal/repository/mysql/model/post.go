package model

import (
	"time"

	"github.com/Guyuepp/go-clean-social/domain"
)

type Post struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	UserID      int64  `gorm:"column:user_id;not null;index"`
	Content     string `gorm:"type:text;not null"`
	Tags        string `gorm:"type:varchar(255)"`
	Link        string `gorm:"type:varchar(512)"`
	IsPublished bool   `gorm:"column:is_published;not null;default:true"`
	UpdatedAt   time.Time
	CreatedAt   time.Time `gorm:"index"`
}

func (Post) TableName() string {
	return "post"
}

func (m *Post) ToDomain() domain.Post {
	return domain.Post{
		ID:          m.ID,
		AuthorID:    m.UserID,
		Content:     m.Content,
		Tags:        m.Tags,
		Link:        m.Link,
		IsPublished: m.IsPublished,
		UpdatedAt:   m.UpdatedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func NewPostFromDomain(p *domain.Post) *Post {
	return &Post{
		ID:          p.ID,
		UserID:      p.AuthorID,
		Content:     p.Content,
		Tags:        p.Tags,
		Link:        p.Link,
		IsPublished: p.IsPublished,
		UpdatedAt:   p.UpdatedAt,
		CreatedAt:   p.CreatedAt,
	}
}
