// Package idgen provides sequential id allocators for short code generation.
// Allocated ids start at 1 and are strictly increasing; a failed call is not
// retried, so its id is simply never minted. Gaps are harmless because codes
// are opaque.
package idgen

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/luizdk/shortener/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// counterKey is the single cluster-wide counter; nothing else touches it.
const counterKey = "url_shortener:id_counter"

// RedisAllocator allocates ids with Redis INCR, which serializes increments
// at the storage layer. Safe for arbitrary concurrent callers across
// replicas.
type RedisAllocator struct {
	client      *redis.Client
	initialized atomic.Bool
}

// NewRedisAllocator creates an allocator backed by the given Redis client.
func NewRedisAllocator(client *redis.Client) *RedisAllocator {
	return &RedisAllocator{client: client}
}

// NextID returns the next id. The counter is lazily initialized to 0 so the
// first call returns 1.
func (a *RedisAllocator) NextID(ctx context.Context) (int64, error) {
	if !a.initialized.Load() {
		// SETNX is atomic: a concurrent first call cannot clobber a counter
		// that has already advanced.
		if err := a.client.SetNX(ctx, counterKey, 0, 0).Err(); err != nil {
			return 0, fmt.Errorf("%w: initialize counter: %s", shortener.ErrAllocatorUnavailable, err)
		}

		a.initialized.Store(true)
	}

	id, err := a.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", shortener.ErrAllocatorUnavailable, err)
	}

	return id, nil
}

// Reset sets the counter so the next NextID call returns 1. Administrative
// use only.
func (a *RedisAllocator) Reset(ctx context.Context) error {
	return a.ResetTo(ctx, 1)
}

// ResetTo sets the counter so the next NextID call returns v. The SET is a
// single atomic write, so no interleaving with concurrent NextID calls can
// produce a duplicate.
func (a *RedisAllocator) ResetTo(ctx context.Context, v int64) error {
	if v < 1 {
		return fmt.Errorf("reset value %d is out of range: ids start at 1", v)
	}

	if err := a.client.Set(ctx, counterKey, v-1, 0).Err(); err != nil {
		return fmt.Errorf("%w: reset counter: %s", shortener.ErrAllocatorUnavailable, err)
	}

	a.initialized.Store(true)

	return nil
}

// Compile-time check.
var _ shortener.IDAllocator = (*RedisAllocator)(nil)
