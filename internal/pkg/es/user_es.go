package es

import (
	"WorkUs/internal/model"
	"time"
)

// UserES 对应用户索引的文档结构
type UserES struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	AvatarURL  string    `json:"avatar_url"`
	Source     string    `json:"source"`
	JoinedAt   time.Time `json:"joined_at"`
	IndexedAt  time.Time `json:"indexed_at"`
}

func NewUserES(u *model.MergedUser, now time.Time) *UserES {
	return &UserES{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Role:       string(u.Role),
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
		Source:     string(u.Source),
		JoinedAt:   u.JoinedAt,
		IndexedAt:  now,
	}
}
