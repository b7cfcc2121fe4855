package kafka

import (
	"WorkUs/internal/pkg/logger"
	"context"
	log "log/slog"
	"sync/atomic"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// watchedColumns 影响合并结果或统计的列
var watchedColumns = []string{"id", "email", "role", "is_active", "is_verified", "joined_at"}

// StatsRefresher 重新观察用户列表并刷新快照
type StatsRefresher interface {
	Refresh(ctx context.Context) error
}

// UsersHandler 消费 users 表的 binlog，一批消息里有相关变更时刷新一次统计
type UsersHandler struct {
	refresher StatsRefresher
	table     string
	dirty     atomic.Bool
}

func NewUsersHandler(refresher StatsRefresher, table string) *UsersHandler {
	if table == "" {
		table = "users"
	}
	return &UsersHandler{
		refresher: refresher,
		table:     table,
	}
}

func (s *UsersHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("users consumer setup")
	return nil
}

func (s *UsersHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("users consumer cleanup")
	return nil
}

func (s *UsersHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-users consume claim", "partition", claim.Partition())
	if err := pullMessageBatch(session, claim, s.logic, s.flush); err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	log.Info("topic-users consume claim end", "partition", claim.Partition())
	return nil
}

func (s *UsersHandler) logic(_ context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, s.table)
	if err != nil {
		return err
	}
	if affectsStats(canalMsg) {
		s.dirty.Store(true)
	}
	return nil
}

func (s *UsersHandler) flush(ctx context.Context) error {
	if !s.dirty.Swap(false) {
		return nil
	}
	ctx = context.WithValue(ctx, logger.TraceIDKey, "kafka-"+uuid.NewString())
	if err := s.refresher.Refresh(ctx); err != nil {
		s.dirty.Store(true)
		return err
	}
	log.InfoContext(ctx, "admin stats refreshed from users binlog")
	return nil
}

// affectsStats 新增、删除总是相关；更新只在关注的列变化时相关
func affectsStats(m *CanalMessage) bool {
	switch m.Type {
	case CanalInsert, CanalDelete:
		return true
	case CanalUpdate:
		changed := m.ChangedColumns()
		for _, col := range watchedColumns {
			if _, ok := changed[col]; ok {
				return true
			}
		}
	}
	return false
}
