package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickbite/kiosk-api/internal/usecase"
)

// RedisStatusCache keeps the latest order status for cheap lookups.
// Writers treat it as best-effort.
type RedisStatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatusCache(rdb *redis.Client, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{rdb: rdb, ttl: ttl}
}

var _ usecase.StatusCache = (*RedisStatusCache)(nil)

func (c *RedisStatusCache) SetStatus(ctx context.Context, orderID, status string) error {
	return c.rdb.Set(ctx, "order:status:"+orderID, status, c.ttl).Err()
}

func (c *RedisStatusCache) GetStatus(ctx context.Context, orderID string) (string, error) {
	val, err := c.rdb.Get(ctx, "order:status:"+orderID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}
