// Package maintenance runs background housekeeping for the short URL store.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/luizdk/shortener/internal/shortener"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepTimeout bounds a single sweep run.
const sweepTimeout = 30 * time.Second

// Sweeper periodically deletes expired short URL records. The sweep is an
// eventual cleanup: resolution and deduplication check expiry themselves
// and stay correct between runs.
type Sweeper struct {
	service  *shortener.Service
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewSweeper creates a sweeper with a cron schedule spec such as
// "*/10 * * * *".
func NewSweeper(service *shortener.Service, schedule string, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start schedules the sweep and begins running it.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("schedule expiry sweep: %w", err)
	}

	s.cron.Start()

	s.logger.Info("expiry sweeper started", zap.String("schedule", s.schedule))

	return nil
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	deleted, err := s.service.PurgeExpired(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))

		return
	}

	if deleted > 0 {
		s.logger.Info("expired records purged", zap.Int64("deleted", deleted))
	}
}

// Shutdown stops the schedule and waits for a running sweep to finish.
func (s *Sweeper) Shutdown() error {
	<-s.cron.Stop().Done()

	return nil
}
