package kafka

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second
	maxRetries   = 5
)

// LogicFunc 处理单条消息
type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// BatchDoneFunc 一批消息处理完后、提交位点前执行
type BatchDoneFunc func(ctx context.Context) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc, done BatchDoneFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		processBatch(session.Context(), batch, logic, done)
		session.MarkMessage(batch[len(batch)-1], "")
		session.Commit()
		batch = make([]*sarama.ConsumerMessage, 0, batchSize)
	}

	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				flush()
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			flush()
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，全部完成后执行 done
func processBatch(ctx context.Context, messages []*sarama.ConsumerMessage, logic LogicFunc, done BatchDoneFunc) {
	var wg sync.WaitGroup
	for _, msg := range messages {
		wg.Add(1)
		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			err := withRetry(ctx, func() error {
				err := logic(ctx, m)
				if errors.Is(err, errSkipMessage) {
					return nil
				}
				return err
			})
			if err != nil {
				log.ErrorContext(ctx, "drop message after retries",
					"topic", m.Topic,
					"partition", m.Partition,
					"offset", m.Offset,
					"err", err)
			}
		}(msg)
	}
	wg.Wait()

	if done == nil {
		return
	}
	if err := withRetry(ctx, func() error { return done(ctx) }); err != nil {
		log.ErrorContext(ctx, "batch callback failed", "err", err)
	}
}

// withRetry 指数退避重试，上限 5 秒
func withRetry(ctx context.Context, fn func() error) error {
	retryInterval := 100 * time.Millisecond
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = fn(); err == nil {
			return nil
		}
		log.WarnContext(ctx, "process message error", "attempt", i+1, "err", err)

		select {
		case <-ctx.Done():
			return errors.Wrap(err, "context done")
		case <-time.After(retryInterval):
		}

		retryInterval *= 2
		if retryInterval > 5*time.Second {
			retryInterval = 5 * time.Second
		}
	}
	return errors.Wrapf(err, "gave up after %d attempts", maxRetries)
}
