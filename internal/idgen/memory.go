package idgen

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/luizdk/shortener/internal/shortener"
)

// MemoryAllocator is a process-local allocator for tests and single-instance
// development. The counter itself is the atomic primitive, so no library
// adds anything over sync/atomic here.
type MemoryAllocator struct {
	counter atomic.Int64
}

// NewMemoryAllocator creates an allocator whose first NextID call returns 1.
func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{}
}

// NextID returns the next id.
func (a *MemoryAllocator) NextID(_ context.Context) (int64, error) {
	return a.counter.Add(1), nil
}

// Reset sets the counter so the next NextID call returns 1.
func (a *MemoryAllocator) Reset(_ context.Context) error {
	a.counter.Store(0)

	return nil
}

// ResetTo sets the counter so the next NextID call returns v.
func (a *MemoryAllocator) ResetTo(_ context.Context, v int64) error {
	if v < 1 {
		return fmt.Errorf("reset value %d is out of range: ids start at 1", v)
	}

	a.counter.Store(v - 1)

	return nil
}

// Compile-time check.
var _ shortener.IDAllocator = (*MemoryAllocator)(nil)
