package model

import "time"

// RegisteredUser 持久化 KV 中注册用户列表的条目
type RegisteredUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
