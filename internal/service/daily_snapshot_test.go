package service

import (
	"WorkUs/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDailySnapshotReplacesSameDay(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)

	history := RecordDailySnapshot(nil, 10, 0, now, DefaultHistoryLimit)
	history = RecordDailySnapshot(history, 15, 10, now.Add(3*time.Hour), DefaultHistoryLimit)

	require.Len(t, history, 1)
	assert.Equal(t, "2026-03-04", history[0].Date)
	assert.Equal(t, 15, history[0].TotalUsers)
}

func TestRecordDailySnapshotDeltaFromYesterday(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	history := []model.DailyUserRecord{{Date: "2026-03-03", TotalUsers: 40, NewUsers: 2}}

	out := RecordDailySnapshot(history, 47, 999, now, DefaultHistoryLimit)
	require.Len(t, out, 2)
	assert.Equal(t, 7, out[1].NewUsers)

	// 用户数减少时不出现负数
	out = RecordDailySnapshot(history, 30, 0, now, DefaultHistoryLimit)
	assert.Equal(t, 0, out[1].NewUsers)
}

func TestRecordDailySnapshotFallsBackToPriorTotal(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	history := []model.DailyUserRecord{{Date: "2026-02-20", TotalUsers: 5}}

	out := RecordDailySnapshot(history, 12, 9, now, DefaultHistoryLimit)
	require.Len(t, out, 2)
	assert.Equal(t, 3, out[1].NewUsers)
}

func TestRecordDailySnapshotKeepsIdentity(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	history := []model.DailyUserRecord{{ID: 42, Date: "2026-03-04", TotalUsers: 1}}

	out := RecordDailySnapshot(history, 3, 0, now, DefaultHistoryLimit)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(42), out[0].ID)
	assert.Equal(t, 3, out[0].TotalUsers)
}

func TestRecordDailySnapshotTruncates(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local)
	var history []model.DailyUserRecord
	var last time.Time
	for i := 0; i < 400; i++ {
		last = start.AddDate(0, 0, i)
		history = RecordDailySnapshot(history, i, 0, last, DefaultHistoryLimit)
	}

	require.Len(t, history, 365)
	assert.Equal(t, DateKey(last), history[364].Date)
	assert.Equal(t, DateKey(start.AddDate(0, 0, 35)), history[0].Date)
	for i := 1; i < len(history); i++ {
		assert.Less(t, history[i-1].Date, history[i].Date)
	}
}

func TestUserEvolutionBuckets(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	day := func(offset, n int) model.DailyUserRecord {
		return model.DailyUserRecord{Date: DateKey(now.AddDate(0, 0, -offset)), NewUsers: n}
	}
	history := []model.DailyUserRecord{
		day(0, 4), day(1, 2), day(6, 1), day(7, 3), day(13, 1), day(29, 5), day(30, 2), day(59, 1), day(60, 100),
	}

	set := UserEvolution(history, model.AdminStats{}, now)
	assert.Equal(t, Evolution{Current: 4, Previous: 2, Percentage: "+100%", Trend: TrendUp}, set.Day)
	assert.Equal(t, 7, set.Week.Current)
	assert.Equal(t, 4, set.Week.Previous)
	assert.Equal(t, 16, set.Month.Current)
	assert.Equal(t, 3, set.Month.Previous)
	assert.Equal(t, 119, set.Year.Current)
	assert.Equal(t, 0, set.Year.Previous)
}

func TestUserEvolutionCounterFallback(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	history := []model.DailyUserRecord{{Date: DateKey(now.AddDate(0, 0, -8)), NewUsers: 4}}
	counters := model.AdminStats{NewUsersToday: 0, NewUsersThisWeek: 6, NewUsersThisMonth: 9}

	set := UserEvolution(history, counters, now)
	assert.Equal(t, 0, set.Day.Current)
	assert.Equal(t, "0%", set.Day.Percentage)
	assert.Equal(t, 6, set.Week.Current)
	assert.Equal(t, 4, set.Week.Previous)
	assert.Equal(t, "+50%", set.Week.Percentage)
	// 区间非零时不使用计数器
	assert.Equal(t, 4, set.Month.Current)
}

func TestUserEvolutionIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	history := RecordDailySnapshot(nil, 10, 3, now, DefaultHistoryLimit)
	counters := model.AdminStats{NewUsersThisYear: 12}

	assert.Equal(t, UserEvolution(history, counters, now), UserEvolution(history, counters, now))
}
