package dto

import (
	"WorkUs/internal/model"
	"time"
)

// AdminUserDTO 管理后台列表中的用户
type AdminUserDTO struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	Username   string           `json:"username"`
	Role       model.Role       `json:"role"`
	IsActive   bool             `json:"isActive"`
	IsVerified bool             `json:"isVerified"`
	AvatarURL  string           `json:"avatarUrl,omitempty"`
	JoinedAt   time.Time        `json:"joinedAt"`
	Source     model.UserSource `json:"source"`
}

// AdminUserListDTO 列表结果，summary 基于筛选前的全部用户
type AdminUserListDTO struct {
	Users   []*AdminUserDTO `json:"users"`
	Matched int             `json:"matched"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
	Summary UserSummaryDTO  `json:"summary"`
}

// UserSummaryDTO 按状态和角色的计数
type UserSummaryDTO struct {
	Total    int                `json:"total"`
	Active   int                `json:"active"`
	Inactive int                `json:"inactive"`
	Verified int                `json:"verified"`
	ByRole   map[model.Role]int `json:"byRole"`
}

// UserListQueryDTO 列表筛选
type UserListQueryDTO struct {
	Role    string `form:"role" validate:"omitempty,role"`
	Active  *bool  `form:"active"`
	Keyword string `form:"keyword" validate:"omitempty,max=100"`
	Page    int    `form:"page" validate:"omitempty,min=1,max=1000000"`
	Size    int    `form:"size" validate:"omitempty,min=1,max=200"`
}

// ChangeRoleDTO 修改角色
type ChangeRoleDTO struct {
	Role string `json:"role" binding:"required" validate:"role"`
}

// UpdateProfileDTO 完整资料编辑，未提供的字段保持不变
type UpdateProfileDTO struct {
	Username   *string `json:"username" validate:"omitempty,min=1,max=50"`
	Role       *string `json:"role" validate:"omitempty,role"`
	IsActive   *bool   `json:"isActive"`
	IsVerified *bool   `json:"isVerified"`
}
