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

func TestMemoryCache(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		c := store.NewMemoryCache()

		require.NoError(t, c.Set(context.Background(), "url:https://example.com:permanent", "abc12", time.Hour))

		value, err := c.Get(context.Background(), "url:https://example.com:permanent")
		require.NoError(t, err)
		assert.Equal(t, "abc12", value)
	})

	t.Run("miss returns ErrCacheMiss", func(t *testing.T) {
		c := store.NewMemoryCache()

		_, err := c.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, shortener.ErrCacheMiss)
	})

	t.Run("entries expire after their ttl", func(t *testing.T) {
		c := store.NewMemoryCache()

		require.NoError(t, c.Set(context.Background(), "key", "value", time.Millisecond))
		time.Sleep(10 * time.Millisecond)

		_, err := c.Get(context.Background(), "key")
		assert.ErrorIs(t, err, shortener.ErrCacheMiss)
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		c := store.NewMemoryCache()

		require.NoError(t, c.Set(context.Background(), "key", "value", time.Hour))
		require.NoError(t, c.Delete(context.Background(), "key"))

		_, err := c.Get(context.Background(), "key")
		assert.ErrorIs(t, err, shortener.ErrCacheMiss)
	})
}
