package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// defaultCacheTTL bounds staleness of cache entries after a record is
// deleted or expires; mappings themselves are immutable.
const defaultCacheTTL = 7 * 24 * time.Hour

// CreateParams are the inputs to CreateShortURL. OwnerID is empty for
// anonymous callers. A non-empty CustomCode bypasses deduplication.
type CreateParams struct {
	URL        string
	ExpiresAt  *time.Time
	OwnerID    string
	CustomCode string
}

// Service orchestrates short code creation and resolution across the
// repository, the advisory cache, the id allocator, and the codec.
type Service struct {
	repo     Repository
	cache    Cache // nil disables caching
	ids      IDAllocator
	codec    *Codec
	now      Clock
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService creates a new short URL service. cache may be nil.
func NewService(
	repo Repository,
	cache Cache,
	ids IDAllocator,
	codec *Codec,
	now Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		ids:      ids,
		codec:    codec,
		now:      now,
		cacheTTL: defaultCacheTTL,
		logger:   logger,
	}
}

// CreateShortURL returns a short code for the given URL, deduplicating
// identical non-expired URLs within the same expiry class and owner scope.
//
// Owner scope: an authenticated owner's own record wins; if none exists, an
// anonymous record for the same URL and expiry class is reused.
//
// Two concurrent first requests for the same URL may both miss the cache and
// the store and insert two distinct records. That is a bounded inefficiency,
// not a correctness violation: uniqueness is on the code, and the cache
// deduplicates the common case.
func (s *Service) CreateShortURL(ctx context.Context, params CreateParams) (*CreateResult, error) {
	normalized, err := Normalize(params.URL)
	if err != nil {
		return nil, err
	}

	if params.CustomCode != "" {
		return s.createCustom(ctx, normalized, params)
	}

	cacheKey := dedupeKey(normalized, params.ExpiresAt, params.OwnerID)

	// Expiring requests never consult the cache: a cached hit would let a
	// future resolver bypass the per-request expiry the caller intended.
	if s.cache != nil && params.ExpiresAt == nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			return &CreateResult{Code: Code(cached), IsExisting: true}, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("cache get failed, falling through to store",
				zap.String("key", cacheKey),
				zap.Error(err),
			)
		}
	}

	expiring := params.ExpiresAt != nil

	existing, err := s.findExisting(ctx, normalized, expiring, params.OwnerID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("look up existing record: %w", err)
	}

	if existing != nil && !existing.Expired(s.now()) {
		// Read-repair: permanent mappings are cached for the next request.
		if existing.ExpiresAt == nil {
			s.cacheCode(ctx, cacheKey, existing.Code)
		}

		return &CreateResult{
			Code:       existing.Code,
			IsExisting: true,
			ExpiresAt:  existing.ExpiresAt,
		}, nil
	}

	// Miss, or the only match is expired: mint a new record. An expired
	// record never blocks creation; it is swept eventually.
	id, err := s.ids.NextID(ctx)
	if err != nil {
		return nil, err
	}

	code, err := s.codec.Encode(id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &Record{
		Code:        Code(code),
		OriginalURL: normalized,
		OwnerID:     params.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   params.ExpiresAt,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		var conflict *ShortCodeConflictError
		if errors.As(err, &conflict) {
			// The allocator guarantees unique ids, so a generated code can
			// only collide with a custom code or a corrupted counter. Treat
			// it as a fault, not a retry condition.
			return nil, fmt.Errorf("generated short code %q collided: %s", code, err)
		}

		return nil, fmt.Errorf("insert record: %w", err)
	}

	if params.ExpiresAt == nil {
		s.cacheCode(ctx, cacheKey, record.Code)
	}

	return &CreateResult{Code: record.Code, ExpiresAt: params.ExpiresAt}, nil
}

// createCustom handles user-chosen codes: no deduplication, no cache, fail
// with a conflict if the code is taken by any record.
func (s *Service) createCustom(ctx context.Context, normalized string, params CreateParams) (*CreateResult, error) {
	code := Code(params.CustomCode)

	_, err := s.repo.GetByCode(ctx, code)
	if err == nil {
		return nil, &ShortCodeConflictError{Code: code}
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check custom code: %w", err)
	}

	now := s.now()
	record := &Record{
		Code:        code,
		OriginalURL: normalized,
		OwnerID:     params.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   params.ExpiresAt,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		// A concurrent request may have taken the code between the existence
		// check and the insert; the store's uniqueness constraint decides.
		return nil, err
	}

	return &CreateResult{Code: code, ExpiresAt: params.ExpiresAt}, nil
}

// Resolve looks up the original URL for a short code. Expired mappings are
// reported as expired rather than hidden, so callers can answer 410 instead
// of 404. Returns ErrNotFound for unknown codes.
func (s *Service) Resolve(ctx context.Context, code Code) (*Resolution, error) {
	record, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return &Resolution{
		URL:     record.OriginalURL,
		Expired: record.Expired(s.now()),
	}, nil
}

// PurgeExpired deletes expired records. Deletion is eventual; resolution and
// deduplication check expiry themselves and never depend on the sweep.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

// findExisting prefers the owner's own record and falls back to an
// anonymous one. Anonymous callers only ever see anonymous records.
func (s *Service) findExisting(ctx context.Context, normalized string, expiring bool, ownerID string) (*Record, error) {
	record, err := s.repo.FindMatch(ctx, normalized, expiring, ownerID)
	if err == nil || ownerID == "" || !errors.Is(err, ErrNotFound) {
		return record, err
	}

	return s.repo.FindMatch(ctx, normalized, expiring, "")
}

// cacheCode writes a dedupe entry. Caching is best-effort: failures are
// logged and never surfaced.
func (s *Service) cacheCode(ctx context.Context, key string, code Code) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, string(code), s.cacheTTL); err != nil {
		s.logger.Warn("cache set failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// dedupeKey partitions the cache by expiry class and owner scope: a
// permanent mapping is never served for a time-boxed request, and an owned
// mapping is never served to an anonymous caller or a different owner.
func dedupeKey(normalizedURL string, expiresAt *time.Time, ownerID string) string {
	key := "url:" + normalizedURL

	if ownerID != "" {
		key += ":owner:" + ownerID
	}

	if expiresAt != nil {
		return fmt.Sprintf("%s:exp:%d", key, expiresAt.Unix())
	}

	return key + ":permanent"
}
