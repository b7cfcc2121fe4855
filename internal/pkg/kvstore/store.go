package kvstore

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 8

// ErrConflict 乐观锁重试次数耗尽
var ErrConflict = errors.New("kvstore: too many concurrent updates")

// Store 字符串键值存储，值为序列化后的 JSON
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
	// Update 原子地读改写一个键，fn 返回新值
	Update(ctx context.Context, key string, fn func(old string, exists bool) (string, error)) error
}

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore 所有键会加上 prefix
func NewRedisStore(rdb *redis.Client, prefix string) Store {
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) key(k string) string {
	return s.prefix + k
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value string) error {
	return s.rdb.Set(ctx, s.key(key), value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	return s.rdb.Del(ctx, full...).Err()
}

func (s *redisStore) Update(ctx context.Context, key string, fn func(old string, exists bool) (string, error)) error {
	k := s.key(key)
	txf := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, k).Result()
		exists := true
		if errors.Is(err, redis.Nil) {
			exists = false
			err = nil
		}
		if err != nil {
			return err
		}
		value, err := fn(old, exists)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, value, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, k)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

// GetJSON 读取并解析 JSON，键不存在或内容损坏时返回零值
func GetJSON[T any](ctx context.Context, s Store, key string) (T, error) {
	var v T
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return v, err
	}
	return decode[T](ctx, key, raw), nil
}

// SetJSON 序列化后写入
func SetJSON[T any](ctx context.Context, s Store, key string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(b))
}

// UpdateJSON 原子地读改写一个 JSON 值，损坏的旧值按零值处理
func UpdateJSON[T any](ctx context.Context, s Store, key string, fn func(v *T) error) error {
	return s.Update(ctx, key, func(old string, exists bool) (string, error) {
		var v T
		if exists {
			v = decode[T](ctx, key, old)
		}
		if err := fn(&v); err != nil {
			return "", err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
}

func decode[T any](ctx context.Context, key string, raw string) T {
	var v T
	if raw == "" {
		return v
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.WarnContext(ctx, "malformed kv value, using empty default", "key", key, "err", err)
		var zero T
		return zero
	}
	return v
}
