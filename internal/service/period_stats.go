package service

import (
	"WorkUs/internal/model"
	"fmt"
	"math"
	"strings"
	"time"
)

// Period 统计周期
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod 空字符串按 week 处理
func ParsePeriod(s string) (Period, bool) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodWeek, true
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, true
	}
	return "", false
}

// Trend 变化方向
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Evolution 当前窗口与上一窗口的对比
type Evolution struct {
	Current    int    `json:"current"`
	Previous   int    `json:"previous"`
	Percentage string `json:"percentage"`
	Trend      Trend  `json:"trend"`
}

// NewEvolution 计算百分比与趋势，previous 为 0 时 current>0 记为 +100%
func NewEvolution(current, previous int) Evolution {
	var raw float64
	var percentage string

	switch {
	case previous == 0 && current > 0:
		raw = 100
		percentage = "+100%"
	case previous == 0:
		percentage = "0%"
	default:
		raw = float64(current-previous) / float64(previous) * 100
		rounded := int(math.Floor(raw + 0.5))
		if rounded >= 0 {
			percentage = fmt.Sprintf("+%d%%", rounded)
		} else {
			percentage = fmt.Sprintf("%d%%", rounded)
		}
	}

	trend := TrendStable
	if raw > 0 {
		trend = TrendUp
	} else if raw < 0 {
		trend = TrendDown
	}

	return Evolution{
		Current:    current,
		Previous:   previous,
		Percentage: percentage,
		Trend:      trend,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// PeriodRange 返回向前偏移 offset 个周期后的日历窗口 [start, end)，end 为下一周期的起点；周从周一开始
func PeriodRange(period Period, offset int, now time.Time) (start, end time.Time) {
	today := startOfDay(now)

	switch period {
	case PeriodDay:
		start = today.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 1)
	case PeriodMonth:
		start = time.Date(today.Year(), today.Month()-time.Month(offset), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)
	case PeriodYear:
		start = time.Date(today.Year()-offset, time.January, 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(1, 0, 0)
	default:
		sinceMonday := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -sinceMonday-7*offset)
		end = start.AddDate(0, 0, 7)
	}

	return start, end
}

// inRange 半开区间，相邻窗口之间没有缝隙
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// CountJoined 统计加入时间落在 [start, end) 内的用户数
func CountJoined(users []*model.MergedUser, start, end time.Time) int {
	n := 0
	for _, u := range users {
		if u != nil && inRange(u.JoinedAt, start, end) {
			n++
		}
	}
	return n
}

// RealTimeStats 本周期与上一周期新增用户对比
func RealTimeStats(period Period, users []*model.MergedUser, now time.Time) Evolution {
	curStart, curEnd := PeriodRange(period, 0, now)
	prevStart, prevEnd := PeriodRange(period, 1, now)
	return NewEvolution(
		CountJoined(users, curStart, curEnd),
		CountJoined(users, prevStart, prevEnd),
	)
}

// ComputeCounters 从合并后的用户列表重新计算累计计数器
func ComputeCounters(users []*model.MergedUser, now time.Time) model.AdminStats {
	count := func(p Period) int {
		start, end := PeriodRange(p, 0, now)
		return CountJoined(users, start, end)
	}
	return model.AdminStats{
		TotalUsers:        len(users),
		NewUsersToday:     count(PeriodDay),
		NewUsersThisWeek:  count(PeriodWeek),
		NewUsersThisMonth: count(PeriodMonth),
		NewUsersThisYear:  count(PeriodYear),
		LastUpdated:       now,
	}
}
