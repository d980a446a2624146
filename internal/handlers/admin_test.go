package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/luizdk/shortener/internal/handlers"
	"github.com/luizdk/shortener/internal/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCounterReset(t *testing.T) {
	t.Run("reset restarts the counter at 1", func(t *testing.T) {
		allocator := idgen.NewMemoryAllocator()

		for i := 0; i < 5; i++ {
			_, err := allocator.NextID(context.Background())
			require.NoError(t, err)
		}

		handler := handlers.NewCounterHandler(allocator, zap.NewNop())

		resp, err := handler.Reset(context.Background(), &handlers.ResetCounterRequest{})

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "reset", resp.Body.Type)

		id, err := allocator.NextID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("reset to value continues from there", func(t *testing.T) {
		allocator := idgen.NewMemoryAllocator()
		handler := handlers.NewCounterHandler(allocator, zap.NewNop())

		req := &handlers.ResetCounterRequest{}
		req.Body.Value = 5000

		resp, err := handler.Reset(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "resetToValue", resp.Body.Type)
		assert.Equal(t, int64(5000), resp.Body.Value)

		id, err := allocator.NextID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(5000), id)
	})

	t.Run("returns 502 when the allocator is down", func(t *testing.T) {
		handler := handlers.NewCounterHandler(failingAllocator{}, zap.NewNop())

		resp, err := handler.Reset(context.Background(), &handlers.ResetCounterRequest{})

		assert.Nil(t, resp)
		assertStatus(t, err, http.StatusBadGateway)
	})
}
