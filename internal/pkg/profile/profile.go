package profile

import (
	"WorkUs/internal/model"
	"time"
)

// Profile 远程 profiles 表的一行
type Profile struct {
	ID         string    `json:"id"`
	Username   *string   `json:"username"`
	Email      *string   `json:"email"`
	Role       *string   `json:"role"`
	IsActive   *bool     `json:"is_active"`
	IsVerified *bool     `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	AvatarURL  *string   `json:"avatar_url"`
}

// Update 允许修改的字段
type Update struct {
	Role      *model.Role `json:"role,omitempty"`
	Username  *string     `json:"username,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ToUser 转换为文档库用户结构，缺失的 is_active 视为启用
func (p *Profile) ToUser() *model.User {
	u := &model.User{
		ID:       p.ID,
		Role:     model.RoleUser,
		IsActive: true,
		JoinedAt: p.CreatedAt,
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Role != nil {
		if r, ok := model.ParseRole(*p.Role); ok {
			u.Role = r
		}
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	return u
}
