package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickbite/kiosk-api/internal/usecase"
)

// RedisIdempotencyStore deduplicates checkout retries. Keys expire so
// abandoned locks cannot wedge a customer forever.
type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl}
}

var _ usecase.IdempotencyStore = (*RedisIdempotencyStore)(nil)

func (s *RedisIdempotencyStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, "checkout:idem:"+scope+":"+key, "1", s.ttl).Result()
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, scope, key string) error {
	return s.rdb.Del(ctx, "checkout:idem:"+scope+":"+key).Err()
}

func (s *RedisIdempotencyStore) Remember(ctx context.Context, scope, key, value string) error {
	return s.rdb.Set(ctx, "checkout:idem:map:"+scope+":"+key, value, s.ttl).Err()
}

func (s *RedisIdempotencyStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, "checkout:idem:map:"+scope+":"+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
