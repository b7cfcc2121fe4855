package dto

// RealTimeQueryDTO 实时统计周期，缺省为 week
type RealTimeQueryDTO struct {
	Period string `form:"period" validate:"omitempty,oneof=day week month year"`
}

// DailyRecordDTO 每日快照
type DailyRecordDTO struct {
	Date       string `json:"date"`
	TotalUsers int    `json:"totalUsers"`
	NewUsers   int    `json:"newUsers"`
}
