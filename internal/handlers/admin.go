package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/luizdk/shortener/internal/shortener"
	"go.uber.org/zap"
)

// CounterHandler exposes administrative control over the id allocator.
type CounterHandler struct {
	ids    shortener.IDAllocator
	logger *zap.Logger
}

// NewCounterHandler creates a new counter admin handler.
func NewCounterHandler(ids shortener.IDAllocator, logger *zap.Logger) *CounterHandler {
	return &CounterHandler{ids: ids, logger: logger}
}

// Reset sets the counter so the next allocated id is 1, or the requested
// value when one is given.
func (h *CounterHandler) Reset(ctx context.Context, req *ResetCounterRequest) (*ResetCounterResponse, error) {
	resp := &ResetCounterResponse{}
	resp.Body.Status = "ok"
	resp.Body.Value = req.Body.Value

	if req.Body.Value > 0 {
		resp.Body.Type = "resetToValue"

		if err := h.ids.ResetTo(ctx, req.Body.Value); err != nil {
			return nil, huma.Error502BadGateway("failed to reset counter", err)
		}
	} else {
		resp.Body.Type = "reset"

		if err := h.ids.Reset(ctx); err != nil {
			return nil, huma.Error502BadGateway("failed to reset counter", err)
		}
	}

	h.logger.Info("id counter reset",
		zap.String("type", resp.Body.Type),
		zap.Int64("value", req.Body.Value),
	)

	return resp, nil
}
