package shortener

import (
	"context"
	"time"
)

// Repository defines the authoritative store for short URL records.
// The store enforces uniqueness of Code; Insert returns a
// *ShortCodeConflictError when a code is already taken.
type Repository interface {
	Insert(ctx context.Context, record *Record) error

	// GetByCode returns the record for a code, or ErrNotFound. Expiry is not
	// filtered here; callers check Record.Expired.
	GetByCode(ctx context.Context, code Code) (*Record, error)

	// FindMatch returns the newest record matching the normalized URL, the
	// expiry class (expiring vs permanent) and the owner scope. An empty
	// ownerID matches anonymous records only. Returns ErrNotFound on miss.
	FindMatch(ctx context.Context, normalizedURL string, expiring bool, ownerID string) (*Record, error)

	// RecordAccess applies an atomic click increment and access timestamp.
	RecordAccess(ctx context.Context, code Code, at time.Time) error

	// DeleteExpired removes records whose expiry is strictly before now and
	// returns the number of deleted records.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Cache is an advisory key-value cache. A Get miss returns ErrCacheMiss and
// must fall through to the Repository; any other error is treated the same
// way by callers. Set and Delete failures are never fatal.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IDAllocator produces strictly increasing, globally unique integers
// starting at 1. NextID fails with ErrAllocatorUnavailable when the backing
// counter is unreachable.
type IDAllocator interface {
	NextID(ctx context.Context) (int64, error)

	// Reset sets the counter so the next NextID call returns 1.
	Reset(ctx context.Context) error

	// ResetTo sets the counter so the next NextID call returns v.
	ResetTo(ctx context.Context, v int64) error
}

// Clock supplies the current time; injectable for tests.
type Clock func() time.Time
