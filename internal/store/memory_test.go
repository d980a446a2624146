package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/luizdk/shortener/internal/shortener"
	"github.com/luizdk/shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(code shortener.Code, url string, mutate ...func(*shortener.Record)) *shortener.Record {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r := &shortener.Record{
		Code:        code,
		OriginalURL: url,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, m := range mutate {
		m(r)
	}

	return r
}

func TestMemoryStore_Insert(t *testing.T) {
	t.Run("inserts and retrieves a record", func(t *testing.T) {
		s := store.NewMemoryStore()

		require.NoError(t, s.Insert(context.Background(), record("abc12", "https://example.com")))

		got, err := s.GetByCode(context.Background(), "abc12")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.OriginalURL)
	})

	t.Run("rejects duplicate codes", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), record("abc12", "https://example.com"))

		err := s.Insert(context.Background(), record("abc12", "https://other.com"))

		var conflict *shortener.ShortCodeConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, shortener.Code("abc12"), conflict.Code)
	})
}

func TestMemoryStore_GetByCode(t *testing.T) {
	t.Run("returns ErrNotFound for unknown codes", func(t *testing.T) {
		s := store.NewMemoryStore()

		_, err := s.GetByCode(context.Background(), "missing")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), record("abc12", "https://example.com"))

		got, err := s.GetByCode(context.Background(), "abc12")
		require.NoError(t, err)

		got.OriginalURL = "mutated"

		again, err := s.GetByCode(context.Background(), "abc12")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", again.OriginalURL)
	})
}

func TestMemoryStore_FindMatch(t *testing.T) {
	expiry := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	t.Run("partitions by expiry class", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), record("perm1", "https://example.com"))
		_ = s.Insert(context.Background(), record("temp1", "https://example.com", func(r *shortener.Record) {
			r.ExpiresAt = &expiry
		}))

		perm, err := s.FindMatch(context.Background(), "https://example.com", false, "")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("perm1"), perm.Code)

		temp, err := s.FindMatch(context.Background(), "https://example.com", true, "")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("temp1"), temp.Code)
	})

	t.Run("partitions by owner scope", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), record("anon1", "https://example.com"))
		_ = s.Insert(context.Background(), record("mine1", "https://example.com", func(r *shortener.Record) {
			r.OwnerID = "user-1"
		}))

		mine, err := s.FindMatch(context.Background(), "https://example.com", false, "user-1")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("mine1"), mine.Code)

		anon, err := s.FindMatch(context.Background(), "https://example.com", false, "")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("anon1"), anon.Code)
	})

	t.Run("newest record wins", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), record("old11", "https://example.com"))
		_ = s.Insert(context.Background(), record("new11", "https://example.com", func(r *shortener.Record) {
			r.CreatedAt = r.CreatedAt.Add(time.Hour)
		}))

		got, err := s.FindMatch(context.Background(), "https://example.com", false, "")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("new11"), got.Code)
	})

	t.Run("returns ErrNotFound on miss", func(t *testing.T) {
		s := store.NewMemoryStore()

		_, err := s.FindMatch(context.Background(), "https://example.com", false, "")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryStore_RecordAccess(t *testing.T) {
	t.Run("accumulates clicks", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), record("abc12", "https://example.com"))

		at := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
		require.NoError(t, s.RecordAccess(context.Background(), "abc12", at))
		require.NoError(t, s.RecordAccess(context.Background(), "abc12", at.Add(time.Minute)))

		got, err := s.GetByCode(context.Background(), "abc12")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Clicks)
		require.NotNil(t, got.LastAccessedAt)
		assert.Equal(t, at.Add(time.Minute), *got.LastAccessedAt)
	})

	t.Run("unknown code", func(t *testing.T) {
		s := store.NewMemoryStore()

		err := s.RecordAccess(context.Background(), "missing", time.Now())
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	s := store.NewMemoryStore()
	expiry := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	_ = s.Insert(context.Background(), record("perm1", "https://example.com/a"))
	_ = s.Insert(context.Background(), record("temp1", "https://example.com/b", func(r *shortener.Record) {
		r.ExpiresAt = &expiry
	}))

	deleted, err := s.DeleteExpired(context.Background(), expiry.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = s.GetByCode(context.Background(), "temp1")
	assert.ErrorIs(t, err, shortener.ErrNotFound)

	_, err = s.GetByCode(context.Background(), "perm1")
	assert.NoError(t, err)
}
