package kvstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// Locker 基于 SETNX 的分布式锁
type Locker interface {
	// TryLock 获取锁，retryTimes 为 -1 时一直重试
	TryLock(ctx context.Context, key string, expiration time.Duration, retryTimes int) (unlock func(), ok bool, err error)
}

type redisLocker struct {
	rdb      *redis.Client
	prefix   string
	interval time.Duration
}

func NewRedisLocker(rdb *redis.Client, prefix string) Locker {
	return &redisLocker{rdb: rdb, prefix: prefix, interval: 200 * time.Millisecond}
}

func (s *redisLocker) TryLock(ctx context.Context, key string, expiration time.Duration, retryTimes int) (func(), bool, error) {
	k := s.prefix + key
	token := uuid.NewString()
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := s.rdb.SetNX(ctx, k, token, expiration).Result()
		if err != nil {
			return nil, false, err
		}
		if success {
			unlock := func() {
				s.rdb.Eval(context.WithoutCancel(ctx), unlockScript, []string{k}, token)
			}
			return unlock, true, nil
		}
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(s.interval):
		}
	}
	return nil, false, nil
}
