// Package scheduler triggers ingestion runs on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"news_hub/internal/domain"
)

// Ingester defines the interface for ingestion runs.
type Ingester interface {
	Run(ctx context.Context) (*domain.IngestStats, error)
}

type Scheduler struct {
	ingester   Ingester
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewScheduler(ingester Ingester, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = 5 * time.Minute
	}
	return &Scheduler{
		ingester:   ingester,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger.With("component", "scheduler"),
	}
}

// Start runs once immediately, then on every tick until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runIngest(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runIngest(ctx)
		}
	}
}

func (s *Scheduler) runIngest(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	stats, err := s.ingester.Run(runCtx)
	if err != nil {
		s.logger.Error("ingestion failed", "error", err)
		return
	}
	s.logger.Debug("scheduled ingestion finished", "inserted", stats.Inserted, "errors", stats.Errors)
}
