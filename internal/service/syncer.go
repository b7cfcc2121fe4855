package service

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"
)

// SyncTask 一次尽力而为的同步，失败只记录日志
type SyncTask struct {
	Sink string
	Run  func(ctx context.Context) error
}

// Syncer 在提交阶段之后异步分发同步任务，任务之间互不影响
type Syncer struct {
	wg sync.WaitGroup
}

func NewSyncer() *Syncer {
	return &Syncer{}
}

// Dispatch 每个任务独立运行，脱离请求的取消信号
func (s *Syncer) Dispatch(ctx context.Context, op string, tasks ...SyncTask) {
	ctx = context.WithoutCancel(ctx)
	for _, task := range tasks {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			start := time.Now()

			var err error
			var pc panics.Catcher
			pc.Try(func() { err = task.Run(ctx) })
			if r := pc.Recovered(); r != nil {
				err = r.AsError()
			}

			if err != nil {
				log.WarnContext(ctx, "Best-effort sync failed",
					"op", op,
					"sink", task.Sink,
					"latency", time.Since(start),
					"err", err)
				return
			}
			log.InfoContext(ctx, "Best-effort sync done",
				"op", op,
				"sink", task.Sink,
				"latency", time.Since(start))
		}()
	}
}

// Wait 等待已分发的任务全部结束，用于优雅退出和测试
func (s *Syncer) Wait() {
	s.wg.Wait()
}
