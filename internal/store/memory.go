package store

import (
	"context"
	"sync"
	"time"

	"github.com/luizdk/shortener/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository for
// tests and single-instance development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[shortener.Code]*shortener.Record
}

// NewMemoryStore creates a new in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[shortener.Code]*shortener.Record),
	}
}

func (m *MemoryStore) Insert(_ context.Context, record *shortener.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.Code]; ok {
		return &shortener.ShortCodeConflictError{Code: record.Code}
	}

	clone := *record
	m.records[record.Code] = &clone

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	clone := *record

	return &clone, nil
}

func (m *MemoryStore) FindMatch(
	_ context.Context, normalizedURL string, expiring bool, ownerID string,
) (*shortener.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var newest *shortener.Record

	for _, record := range m.records {
		if record.OriginalURL != normalizedURL {
			continue
		}

		if (record.ExpiresAt != nil) != expiring || record.OwnerID != ownerID {
			continue
		}

		if newest == nil || record.CreatedAt.After(newest.CreatedAt) {
			newest = record
		}
	}

	if newest == nil {
		return nil, shortener.ErrNotFound
	}

	clone := *newest

	return &clone, nil
}

func (m *MemoryStore) RecordAccess(_ context.Context, code shortener.Code, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[code]
	if !ok {
		return shortener.ErrNotFound
	}

	record.Clicks++
	record.LastAccessedAt = &at
	record.UpdatedAt = at

	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64

	for code, record := range m.records {
		if record.ExpiresAt != nil && record.ExpiresAt.Before(now) {
			delete(m.records, code)
			deleted++
		}
	}

	return deleted, nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
