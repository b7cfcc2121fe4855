package service

import (
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/consts"
	"WorkUs/internal/pkg/kvstore"
	"WorkUs/internal/repository"
	"context"
	log "log/slog"
	"time"
)

const (
	snapshotLockTTL   = 30 * time.Second
	snapshotLockRetry = 10
)

// StatsOverview 仪表盘总览
type StatsOverview struct {
	Summary   UserSummary          `json:"summary"`
	Counters  model.AdminStats     `json:"counters"`
	RealTime  map[Period]Evolution `json:"realTime"`
	Evolution EvolutionSet         `json:"evolution"`
}

type AdminStatsService interface {
	Overview(ctx context.Context) (*StatsOverview, error)
	RealTimeStats(ctx context.Context, period Period) (*Evolution, error)
	UserEvolution(ctx context.Context) (*EvolutionSet, error)
	History(ctx context.Context) ([]*model.DailyUserRecord, error)
	RecordDailySnapshot(ctx context.Context, totalUsers int) error
	Snapshot(ctx context.Context) (*model.DailyUserRecord, error)
	Refresh(ctx context.Context) error
}

type AdminStatsServiceImpl struct {
	userService  AdminUserService
	recordRepo   repository.DailyUserRecordRepo
	statsRepo    repository.AdminStatsRepo
	locker       kvstore.Locker
	historyLimit int
	now          func() time.Time
}

func NewAdminStatsService(
	userService AdminUserService,
	recordRepo repository.DailyUserRecordRepo,
	statsRepo repository.AdminStatsRepo,
	locker kvstore.Locker,
	historyLimit int,
) AdminStatsService {
	// 历史最多保留 DefaultHistoryLimit 天
	if historyLimit <= 0 || historyLimit > DefaultHistoryLimit {
		if historyLimit > DefaultHistoryLimit {
			log.Warn("History limit clamped", "configured", historyLimit, "limit", DefaultHistoryLimit)
		}
		historyLimit = DefaultHistoryLimit
	}
	return &AdminStatsServiceImpl{
		userService:  userService,
		recordRepo:   recordRepo,
		statsRepo:    statsRepo,
		locker:       locker,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Overview 观察当前用户列表，更新计数器与今日快照后汇总
func (s *AdminStatsServiceImpl) Overview(ctx context.Context) (*StatsOverview, error) {
	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	counters, err := s.observe(ctx, users, now)
	if err != nil {
		return nil, err
	}
	history, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	overview := &StatsOverview{
		Summary:   Summarize(users),
		Counters:  *counters,
		RealTime:  make(map[Period]Evolution, 3),
		Evolution: UserEvolution(history, *counters, now),
	}
	for _, p := range []Period{PeriodWeek, PeriodMonth, PeriodYear} {
		overview.RealTime[p] = RealTimeStats(p, users, now)
	}
	return overview, nil
}

func (s *AdminStatsServiceImpl) RealTimeStats(ctx context.Context, period Period) (*Evolution, error) {
	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	evo := RealTimeStats(period, users, s.now())
	return &evo, nil
}

// UserEvolution 只读历史与计数器，不写入
func (s *AdminStatsServiceImpl) UserEvolution(ctx context.Context) (*EvolutionSet, error) {
	history, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	counters, err := s.statsRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	set := UserEvolution(history, *counters, s.now())
	return &set, nil
}

func (s *AdminStatsServiceImpl) History(ctx context.Context) ([]*model.DailyUserRecord, error) {
	return s.recordRepo.ListRecords(ctx, s.historyLimit)
}

// RecordDailySnapshot 只写入快照并更新 totalUsers 计数器
func (s *AdminStatsServiceImpl) RecordDailySnapshot(ctx context.Context, totalUsers int) error {
	unlock, ok, err := s.locker.TryLock(ctx, consts.SnapshotLock, snapshotLockTTL, snapshotLockRetry)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSnapshotBusy
	}
	defer unlock()

	stats, err := s.statsRepo.GetStats(ctx)
	if err != nil {
		return err
	}
	if err = s.saveSnapshot(ctx, totalUsers, stats.TotalUsers, s.now()); err != nil {
		return err
	}
	stats.TotalUsers = totalUsers
	stats.LastUpdated = s.now()
	return s.statsRepo.SaveStats(ctx, stats)
}

// Snapshot 管理员手动记录今日快照，总数取当前合并列表的长度
func (s *AdminStatsServiceImpl) Snapshot(ctx context.Context) (*model.DailyUserRecord, error) {
	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if err = s.RecordDailySnapshot(ctx, len(users)); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListRecords(ctx, s.historyLimit)
	if err != nil {
		return nil, err
	}
	today := DateKey(s.now())
	for _, r := range records {
		if r != nil && r.Date == today {
			return r, nil
		}
	}
	return &model.DailyUserRecord{Date: today, TotalUsers: len(users)}, nil
}

// Refresh 定时任务与 CDC 消费者使用
func (s *AdminStatsServiceImpl) Refresh(ctx context.Context) error {
	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		return err
	}
	_, err = s.observe(ctx, users, s.now())
	return err
}

// observe 在快照锁内重新计算计数器并写入今日快照；锁被占用时只返回计算结果
func (s *AdminStatsServiceImpl) observe(ctx context.Context, users []*model.MergedUser, now time.Time) (*model.AdminStats, error) {
	counters := ComputeCounters(users, now)

	unlock, ok, err := s.locker.TryLock(ctx, consts.SnapshotLock, snapshotLockTTL, snapshotLockRetry)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.WarnContext(ctx, "Snapshot lock busy, skip recording", "total_users", counters.TotalUsers)
		return &counters, nil
	}
	defer unlock()

	prior, err := s.statsRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	if err = s.saveSnapshot(ctx, counters.TotalUsers, prior.TotalUsers, now); err != nil {
		return nil, err
	}
	if err = s.statsRepo.SaveStats(ctx, &counters); err != nil {
		return nil, err
	}
	return &counters, nil
}

func (s *AdminStatsServiceImpl) saveSnapshot(ctx context.Context, totalUsers, priorTotal int, now time.Time) error {
	history, err := s.history(ctx)
	if err != nil {
		return err
	}
	updated := RecordDailySnapshot(history, totalUsers, priorTotal, now, s.historyLimit)

	today := DateKey(now)
	for i := range updated {
		if updated[i].Date != today {
			continue
		}
		if err = s.recordRepo.SaveRecord(ctx, &updated[i]); err != nil {
			return err
		}
		break
	}

	if len(updated) > 0 {
		pruned, err := s.recordRepo.PruneBefore(ctx, updated[0].Date)
		if err != nil {
			log.WarnContext(ctx, "Failed to prune daily records", "err", err)
		} else if pruned > 0 {
			log.InfoContext(ctx, "Daily records pruned", "count", pruned, "before", updated[0].Date)
		}
	}

	log.InfoContext(ctx, "Daily snapshot recorded", "date", today, "total_users", totalUsers)
	return nil
}

func (s *AdminStatsServiceImpl) history(ctx context.Context) ([]model.DailyUserRecord, error) {
	records, err := s.recordRepo.ListRecords(ctx, s.historyLimit)
	if err != nil {
		return nil, err
	}
	history := make([]model.DailyUserRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			history = append(history, *r)
		}
	}
	return history, nil
}
