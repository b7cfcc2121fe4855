package model

import "time"

// DailyUserRecord 每日用户数快照，每个自然日至多一条
type DailyUserRecord struct {
	ID         uint64    `gorm:"primaryKey" json:"-"`
	Date       string    `gorm:"type:char(10);not null;uniqueIndex:idx_record_date" json:"date"`
	TotalUsers int       `gorm:"not null;default:0" json:"totalUsers"`
	NewUsers   int       `gorm:"not null;default:0" json:"newUsers"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (DailyUserRecord) TableName() string {
	return "daily_user_records"
}
