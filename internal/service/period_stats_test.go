package service

import (
	"WorkUs/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func joined(ts ...time.Time) []*model.MergedUser {
	users := make([]*model.MergedUser, 0, len(ts))
	for _, t := range ts {
		users = append(users, &model.MergedUser{JoinedAt: t})
	}
	return users
}

func TestNewEvolution(t *testing.T) {
	cases := []struct {
		cur, prev int
		pct       string
		trend     Trend
	}{
		{5, 0, "+100%", TrendUp},
		{5, 10, "-50%", TrendDown},
		{0, 0, "0%", TrendStable},
		{10, 10, "+0%", TrendStable},
		{3, 2, "+50%", TrendUp},
		{1, 3, "-67%", TrendDown},
		{1, 8, "-87%", TrendDown},
		{0, 5, "-100%", TrendDown},
	}
	for _, c := range cases {
		evo := NewEvolution(c.cur, c.prev)
		assert.Equal(t, c.pct, evo.Percentage, "cur=%d prev=%d", c.cur, c.prev)
		assert.Equal(t, c.trend, evo.Trend, "cur=%d prev=%d", c.cur, c.prev)
		assert.Equal(t, c.cur, evo.Current)
		assert.Equal(t, c.prev, evo.Previous)
	}
}

func TestNewEvolutionRoundsHalfUp(t *testing.T) {
	// -12.5 四舍五入为 -12，12.5 为 +13
	assert.Equal(t, "-12%", NewEvolution(7, 8).Percentage)
	assert.Equal(t, "+13%", NewEvolution(9, 8).Percentage)
}

func TestWeekRangeStartsMonday(t *testing.T) {
	wed := time.Date(2026, 3, 4, 15, 30, 0, 0, time.Local)
	start, end := PeriodRange(PeriodWeek, 0, wed)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local), end)

	sun := time.Date(2026, 3, 8, 10, 0, 0, 0, time.Local)
	start, _ = PeriodRange(PeriodWeek, 0, sun)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local), start)

	prevStart, prevEnd := PeriodRange(PeriodWeek, 1, wed)
	assert.Equal(t, time.Date(2026, 2, 23, 0, 0, 0, 0, time.Local), prevStart)
	assert.Equal(t, start, prevEnd)
}

func TestMonthAndYearRanges(t *testing.T) {
	now := time.Date(2026, 1, 15, 8, 0, 0, 0, time.Local)

	start, end := PeriodRange(PeriodMonth, 1, now)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), end)

	start, end = PeriodRange(PeriodYear, 1, now)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), end)

	start, end = PeriodRange(PeriodDay, 0, now)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 1, 16, 0, 0, 0, 0, time.Local), end)
}

func TestRealTimeStatsWeekOnWednesday(t *testing.T) {
	wed := time.Date(2026, 3, 4, 15, 30, 0, 0, time.Local)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	prevSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.Local)

	evo := RealTimeStats(PeriodWeek, joined(monday, prevSunday), wed)
	assert.Equal(t, 1, evo.Current)
	assert.Equal(t, 1, evo.Previous)
	assert.Equal(t, "+0%", evo.Percentage)
	assert.Equal(t, TrendStable, evo.Trend)
}

func TestRealTimeStatsLastInstantOfPreviousWeek(t *testing.T) {
	wed := time.Date(2026, 10, 14, 12, 0, 0, 0, time.Local)
	lastInstant := time.Date(2026, 10, 11, 23, 59, 59, 999_500_000, time.Local)
	nextMonday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.Local)

	evo := RealTimeStats(PeriodWeek, joined(lastInstant), wed)
	assert.Equal(t, 0, evo.Current)
	assert.Equal(t, 1, evo.Previous)

	evo = RealTimeStats(PeriodWeek, joined(nextMonday.Add(-time.Nanosecond), nextMonday), wed)
	assert.Equal(t, 1, evo.Current)
	assert.Equal(t, 1, evo.Previous)
}

func TestComputeCountersSubMillisecondBoundary(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.Local)
	users := joined(time.Date(2026, 10, 13, 23, 59, 59, 999_999_000, time.Local))

	c := ComputeCounters(users, now)
	assert.Equal(t, 0, c.NewUsersToday)
	assert.Equal(t, 1, c.NewUsersThisWeek)
}

func TestRealTimeStatsIsPure(t *testing.T) {
	now := time.Date(2026, 6, 10, 9, 0, 0, 0, time.Local)
	users := joined(now, now.AddDate(0, 0, -1), now.AddDate(0, -1, 0), now.AddDate(-1, 0, 0))

	for _, p := range []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear} {
		assert.Equal(t, RealTimeStats(p, users, now), RealTimeStats(p, users, now))
	}
	month := RealTimeStats(PeriodMonth, users, now)
	assert.Equal(t, 2, month.Current)
	assert.Equal(t, 1, month.Previous)
}

func TestComputeCounters(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.Local)
	users := joined(
		now,
		time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local),
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.Local),
	)

	c := ComputeCounters(users, now)
	assert.Equal(t, 5, c.TotalUsers)
	assert.Equal(t, 1, c.NewUsersToday)
	assert.Equal(t, 2, c.NewUsersThisWeek)
	assert.Equal(t, 3, c.NewUsersThisMonth)
	assert.Equal(t, 4, c.NewUsersThisYear)
	assert.Equal(t, now, c.LastUpdated)
}

func TestParsePeriod(t *testing.T) {
	p, ok := ParsePeriod(" Month ")
	assert.True(t, ok)
	assert.Equal(t, PeriodMonth, p)

	p, ok = ParsePeriod("")
	assert.True(t, ok)
	assert.Equal(t, PeriodWeek, p)

	_, ok = ParsePeriod("decade")
	assert.False(t, ok)
}
