package cron

import (
	"WorkUs/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultSnapshotSpec = "0 5 0 * * *"

type Manager struct {
	engine       *cron.Cron
	snapshotSpec string
	snapshotJob  *job.DailySnapshotJob
}

func NewCronManager(snapshotSpec string, snapshotJob *job.DailySnapshotJob) *Manager {
	if snapshotSpec == "" {
		snapshotSpec = defaultSnapshotSpec
	}
	return &Manager{
		engine: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		snapshotSpec: snapshotSpec,
		snapshotJob:  snapshotJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.snapshotSpec, s.snapshotJob); err != nil {
		return err
	}
	log.Info("Cron job registered", "job", "daily_snapshot", "spec", s.snapshotSpec)
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
