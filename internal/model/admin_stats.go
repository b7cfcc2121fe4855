package model

import "time"

// AdminStats 管理后台的累计计数器
type AdminStats struct {
	TotalUsers        int       `json:"totalUsers"`
	NewUsersToday     int       `json:"newUsersToday"`
	NewUsersThisWeek  int       `json:"newUsersThisWeek"`
	NewUsersThisMonth int       `json:"newUsersThisMonth"`
	NewUsersThisYear  int       `json:"newUsersThisYear"`
	LastUpdated       time.Time `json:"lastUpdated"`
}
