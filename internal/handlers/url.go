package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/luizdk/shortener/internal/analytics"
	"github.com/luizdk/shortener/internal/messaging"
	"github.com/luizdk/shortener/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service            *shortener.Service
	baseURL            string
	publishURLCreated  messaging.Publish[analytics.URLCreatedEvent]
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent]
	logger             *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	service *shortener.Service,
	baseURL string,
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent],
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:            service,
		baseURL:            baseURL,
		publishURLCreated:  publishURLCreated,
		publishURLAccessed: publishURLAccessed,
		logger:             logger,
	}
}

// Shorten creates or reuses a short code for the submitted URL.
func (h *URLHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	meta := RequestMetaFromContext(ctx)

	var expiresAt *time.Time

	if req.Body.ExpiresAt != nil {
		t := time.Unix(*req.Body.ExpiresAt, 0)
		expiresAt = &t
	}

	result, err := h.service.CreateShortURL(ctx, shortener.CreateParams{
		URL:        req.Body.URL,
		ExpiresAt:  expiresAt,
		OwnerID:    meta.OwnerID,
		CustomCode: req.Body.CustomCode,
	})
	if err != nil {
		return nil, mapCreateError(err)
	}

	normalized, _ := shortener.Normalize(req.Body.URL)

	event := &analytics.URLCreatedEvent{
		ID:          uuid.NewString(),
		Code:        string(result.Code),
		OriginalURL: normalized,
		OwnerID:     meta.OwnerID,
		IsExisting:  result.IsExisting,
		ExpiresAt:   result.ExpiresAt,
		CreatedAt:   time.Now(),
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishURLCreated(event); err != nil {
		h.logger.Error("failed to publish url created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, result.Code)

	resp := &ShortenResponse{}
	resp.Headers.Location = fullShortURL
	resp.Body.Code = string(result.Code)
	resp.Body.ShortURL = fullShortURL
	resp.Body.OriginalURL = normalized
	resp.Body.IsExisting = result.IsExisting

	if result.ExpiresAt != nil {
		unix := result.ExpiresAt.Unix()
		resp.Body.ExpiresAt = &unix
	}

	return resp, nil
}

// Redirect sends the client to the original URL behind a short code.
// Expired mappings answer 410, never a redirect to stale content.
func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	resolution, err := h.service.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, huma.Error500InternalServerError("failed to resolve short url")
	}

	if resolution.Expired {
		return nil, huma.Error410Gone("short url has expired")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLAccessedEvent{
		ID:         uuid.NewString(),
		Code:       req.Code,
		AccessedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	// Track, but never block the redirect.
	if err := h.publishURLAccessed(event); err != nil {
		h.logger.Error("failed to publish url accessed event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{
		Status: http.StatusFound,
	}
	resp.Headers.Location = resolution.URL

	return resp, nil
}

// Resolve reports the mapping behind a short code without redirecting.
func (h *URLHandler) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	resolution, err := h.service.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, huma.Error500InternalServerError("failed to resolve short url")
	}

	resp := &ResolveResponse{}
	resp.Body.URL = resolution.URL
	resp.Body.Expired = resolution.Expired

	return resp, nil
}

func mapCreateError(err error) error {
	var conflict *shortener.ShortCodeConflictError

	switch {
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest("url must be an absolute http or https url")
	case errors.As(err, &conflict):
		return huma.Error409Conflict(conflict.Error())
	case errors.Is(err, shortener.ErrAllocatorUnavailable):
		return huma.Error502BadGateway("id allocator unavailable")
	default:
		return huma.Error500InternalServerError("failed to create short url")
	}
}
