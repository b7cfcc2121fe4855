package service

import (
	"WorkUs/internal/model"
	"slices"
	"strings"
	"time"
)

// DefaultHistoryLimit 快照最多保留的天数
const DefaultHistoryLimit = 365

// DateKey 本地时区的 YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// RecordDailySnapshot 写入今天的快照并返回新的历史（按日期升序，超出 limit 时丢弃最旧的）
func RecordDailySnapshot(history []model.DailyUserRecord, totalUsers, priorTotal int, now time.Time, limit int) []model.DailyUserRecord {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	today := DateKey(now)
	yesterday := DateKey(now.AddDate(0, 0, -1))

	base := priorTotal
	for _, r := range history {
		if r.Date == yesterday {
			base = r.TotalUsers
			break
		}
	}

	record := model.DailyUserRecord{
		Date:       today,
		TotalUsers: totalUsers,
		NewUsers:   max(0, totalUsers-base),
	}

	out := make([]model.DailyUserRecord, 0, len(history)+1)
	replaced := false
	for _, r := range history {
		if r.Date == today {
			if !replaced {
				record.ID = r.ID
				record.CreatedAt = r.CreatedAt
				out = append(out, record)
				replaced = true
			}
			continue
		}
		out = append(out, r)
	}
	if !replaced {
		out = append(out, record)
	}

	slices.SortStableFunc(out, func(a, b model.DailyUserRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// EvolutionSet 按天/周/月/年的新增用户演变
type EvolutionSet struct {
	Day   Evolution `json:"day"`
	Week  Evolution `json:"week"`
	Month Evolution `json:"month"`
	Year  Evolution `json:"year"`
}

// sumNewUsers 累加距今 [from, to] 天（含两端）的新增用户数
func sumNewUsers(byDate map[string]int, now time.Time, from, to int) int {
	sum := 0
	for i := from; i <= to; i++ {
		sum += byDate[DateKey(now.AddDate(0, 0, -i))]
	}
	return sum
}

// UserEvolution 基于历史快照的滚动窗口演变，区间为 0 且计数器非 0 时用计数器代替当前值
func UserEvolution(history []model.DailyUserRecord, counters model.AdminStats, now time.Time) EvolutionSet {
	byDate := make(map[string]int, len(history))
	for _, r := range history {
		byDate[r.Date] = r.NewUsers
	}

	bucket := func(days, counter int) Evolution {
		current := sumNewUsers(byDate, now, 0, days-1)
		previous := sumNewUsers(byDate, now, days, 2*days-1)
		if current == 0 && counter != 0 {
			current = counter
		}
		return NewEvolution(current, previous)
	}

	return EvolutionSet{
		Day:   bucket(1, counters.NewUsersToday),
		Week:  bucket(7, counters.NewUsersThisWeek),
		Month: bucket(30, counters.NewUsersThisMonth),
		Year:  bucket(365, counters.NewUsersThisYear),
	}
}
