package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/luizdk/shortener/internal/analytics"
	"github.com/luizdk/shortener/internal/shortener"
	"github.com/luizdk/shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClickStore_SaveURLAccessed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("increments clicks on the record", func(t *testing.T) {
		repo := store.NewMemoryStore()
		require.NoError(t, repo.Insert(context.Background(), &shortener.Record{
			Code:        "abc12",
			OriginalURL: "https://example.com",
			CreatedAt:   now,
			UpdatedAt:   now,
		}))

		clicks := analytics.NewClickStore(repo, zap.NewNop())

		err := clicks.SaveURLAccessed(context.Background(), &analytics.URLAccessedEvent{
			Code:       "abc12",
			AccessedAt: now.Add(time.Minute),
		})
		require.NoError(t, err)

		record, err := repo.GetByCode(context.Background(), "abc12")
		require.NoError(t, err)
		assert.Equal(t, int64(1), record.Clicks)
	})

	t.Run("drops events for swept records", func(t *testing.T) {
		clicks := analytics.NewClickStore(store.NewMemoryStore(), zap.NewNop())

		err := clicks.SaveURLAccessed(context.Background(), &analytics.URLAccessedEvent{
			Code:       "gone1",
			AccessedAt: now,
		})

		assert.NoError(t, err)
	})
}
