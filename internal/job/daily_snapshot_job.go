package job

import (
	"WorkUs/internal/pkg/logger"
	"WorkUs/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const snapshotJobTimeout = 2 * time.Minute

// DailySnapshotJob 每天重新合并用户列表，写入计数器与当日快照
type DailySnapshotJob struct {
	statsSvc service.AdminStatsService
}

func NewDailySnapshotJob(statsSvc service.AdminStatsService) *DailySnapshotJob {
	return &DailySnapshotJob{
		statsSvc: statsSvc,
	}
}

func (s *DailySnapshotJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	ctx, cancel := context.WithTimeout(ctx, snapshotJobTimeout)
	defer cancel()

	start := time.Now()
	if err := s.statsSvc.Refresh(ctx); err != nil {
		log.ErrorContext(ctx, "daily snapshot job failed", "err", err)
		return
	}
	log.InfoContext(ctx, "daily snapshot job done", "date", service.DateKey(start), "latency", time.Since(start))
}
