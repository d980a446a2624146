package store

import (
	"context"
	"errors"
	"time"

	"github.com/luizdk/shortener/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis implementation of shortener.Cache. It reports
// misses via shortener.ErrCacheMiss; all other failures are left to the
// caller, which treats them as misses too.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed cache adapter.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrCacheMiss
		}

		return "", err
	}

	return value, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Compile-time check.
var _ shortener.Cache = (*RedisCache)(nil)
