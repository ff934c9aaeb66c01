package model

import (
	"time"

	"github.com/Guyuepp/go-clean-social/domain"
)

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(64)"`
	Username  string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Password  string `gorm:"type:varchar(255);not null"`
	Avatar    string `gorm:"type:varchar(512)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

// ToDomain drops the password hash; it never leaves the auth service.
func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Username:  m.Username,
		Avatar:    m.Avatar,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
