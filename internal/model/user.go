package model

import "time"

// User 文档库中的用户
type User struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email      string    `gorm:"type:varchar(255);index:idx_email" json:"email"`
	Username   string    `gorm:"type:varchar(50)" json:"username"`
	Role       Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive   bool      `gorm:"type:tinyint(1);not null;default:1" json:"isActive"`
	IsVerified bool      `gorm:"type:tinyint(1);not null;default:0" json:"isVerified"`
	AvatarURL  string    `gorm:"type:varchar(512);column:avatar_url" json:"avatarUrl"`
	JoinedAt   time.Time `gorm:"not null;index:idx_joined_at" json:"joinedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserSource 合并后用户的基准来源
type UserSource string

const (
	SourceRemote UserSource = "remote"
	SourceLocal  UserSource = "local"
)

// MergedUser 合并三方数据并应用覆盖后的用户
type MergedUser struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	Role       Role       `json:"role"`
	IsActive   bool       `json:"isActive"`
	IsVerified bool       `json:"isVerified"`
	AvatarURL  string     `json:"avatarUrl"`
	JoinedAt   time.Time  `json:"joinedAt"`
	Source     UserSource `json:"source"`
}
