package analytics

import (
	"context"
	"errors"

	"github.com/luizdk/shortener/internal/shortener"
	"go.uber.org/zap"
)

// ClickStore persists access events as click counts on the short URL
// records. The increment is atomic at the store layer, so counts survive
// concurrent redirects.
type ClickStore struct {
	repo   shortener.Repository
	logger *zap.Logger
}

// NewClickStore creates a click store backed by the record repository.
func NewClickStore(repo shortener.Repository, logger *zap.Logger) *ClickStore {
	return &ClickStore{repo: repo, logger: logger}
}

func (s *ClickStore) SaveURLCreated(_ context.Context, event *URLCreatedEvent) error {
	// Creation needs no persistence beyond the record itself.
	s.logger.Info("url created",
		zap.String("code", event.Code),
		zap.Bool("isExisting", event.IsExisting),
		zap.String("ownerId", event.OwnerID),
	)

	return nil
}

func (s *ClickStore) SaveURLAccessed(ctx context.Context, event *URLAccessedEvent) error {
	err := s.repo.RecordAccess(ctx, shortener.Code(event.Code), event.AccessedAt)
	if err != nil {
		// The record may have been swept between redirect and consumption;
		// dropping the click is fine, redelivery would not help.
		if errors.Is(err, shortener.ErrNotFound) {
			s.logger.Warn("access event for unknown code",
				zap.String("code", event.Code),
			)

			return nil
		}

		return err
	}

	return nil
}

// Compile-time check.
var _ Store = (*ClickStore)(nil)
