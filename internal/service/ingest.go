package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"news_hub/internal/config"
	"news_hub/internal/domain"
	"news_hub/internal/metrics"
)

// IngestionService fetches every (category, day) unit of the trailing window
// that has no stored articles yet and stores what the source returns.
type IngestionService struct {
	source    Source
	articles  ArticleStore
	state     StateStore
	publisher Publisher
	logger    *slog.Logger
	config    config.IngestionConfig
	clock     Clock
	runs      singleflight.Group
}

func NewIngestionService(
	source Source,
	articles ArticleStore,
	state StateStore,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.IngestionConfig,
	clock Clock,
) *IngestionService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = domain.Categories
	}

	return &IngestionService{
		source:    source,
		articles:  articles,
		state:     state,
		publisher: publisher,
		logger:    logger.With("source", source.ID()),
		config:    cfg,
		clock:     clock,
	}
}

type fetchResult struct {
	unit     domain.WorkUnit
	articles []domain.RawArticle
	err      error
}

// Run performs one ingestion run. Callers arriving while a run is in flight
// share its result. Per-unit and per-article failures are logged and counted
// in the stats; an error is returned only if ctx is already done.
func (s *IngestionService) Run(ctx context.Context) (*domain.IngestStats, error) {
	v, err, shared := s.runs.Do(s.source.ID(), func() (any, error) {
		return s.run(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("joined in-flight ingestion run")
	}
	return v.(*domain.IngestStats), nil
}

// State returns the bookkeeping of the last completed run.
func (s *IngestionService) State(ctx context.Context) (*domain.IngestState, error) {
	return s.state.Get(ctx, s.source.ID())
}

func (s *IngestionService) run(ctx context.Context) (*domain.IngestStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("start ingestion: %w", err)
	}

	startTime := time.Now()
	units := domain.WorkUnits(s.clock.now(), s.config.WindowDays, s.config.Categories)

	s.logger.Info("starting ingestion",
		"source_name", s.source.Name(),
		"units", len(units),
		"window_days", s.config.WindowDays,
		"concurrency", s.config.Concurrency,
	)

	pending := s.filterPending(ctx, units)

	stats := &domain.IngestStats{
		Units:      len(units),
		Skipped:    len(units) - len(pending),
		Dispatched: len(pending),
	}

	s.logger.Debug("units to fetch", "count", len(pending))

	for _, res := range s.fetchAll(ctx, pending) {
		if res.err != nil {
			stats.Failed++
			stats.Errors++
			continue
		}
		s.store(ctx, res, stats)
	}

	if err := s.updateState(ctx, stats); err != nil {
		stats.Errors++
		s.logger.Error("failed to update ingest state", "error", err)
	}

	stats.Duration = time.Since(startTime)
	metrics.RecordRun(stats.Duration.Seconds())

	s.logger.Info("ingestion completed",
		"units", stats.Units,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"fetched", stats.Fetched,
		"inserted", stats.Inserted,
		"duplicates", stats.Duplicates,
		"rejected", stats.Rejected,
		"errors", stats.Errors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

// filterPending drops units that already have at least one stored article.
// A failed check keeps the unit: inserting is idempotent, refetching is not harmful.
func (s *IngestionService) filterPending(ctx context.Context, units []domain.WorkUnit) []domain.WorkUnit {
	pending := make([]domain.WorkUnit, 0, len(units))
	for _, unit := range units {
		exists, err := s.articles.Exists(ctx, unit.Category, unit.Date)
		if err != nil {
			s.logger.Warn("skip check failed",
				"category", unit.Category,
				"date", unit.Day(),
				"error", err,
			)
		} else if exists {
			metrics.RecordUnit(unit.Category.String(), metrics.UnitSkipped)
			continue
		}
		pending = append(pending, unit)
	}
	return pending
}

func (s *IngestionService) fetchAll(ctx context.Context, units []domain.WorkUnit) []fetchResult {
	results := make([]fetchResult, len(units))

	var g errgroup.Group
	g.SetLimit(s.config.Concurrency)

	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			results[i] = s.fetch(ctx, unit)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *IngestionService) fetch(ctx context.Context, unit domain.WorkUnit) fetchResult {
	if s.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.FetchTimeout)
		defer cancel()
	}

	category := unit.Category.String()
	started := time.Now()
	articles, err := s.source.Fetch(ctx, unit)
	metrics.RecordFetch(category, time.Since(started).Seconds())

	if err != nil {
		metrics.RecordUnit(category, metrics.UnitFailed)
		s.logger.Warn("fetch failed",
			"category", unit.Category,
			"date", unit.Day(),
			"error", err,
		)
		return fetchResult{unit: unit, err: err}
	}

	metrics.RecordUnit(category, metrics.UnitFetched)
	return fetchResult{unit: unit, articles: articles}
}

func (s *IngestionService) store(ctx context.Context, res fetchResult, stats *domain.IngestStats) {
	category := res.unit.Category.String()

	for _, raw := range res.articles {
		stats.Fetched++

		article, ok := raw.Accept(res.unit.Category)
		if !ok {
			stats.Rejected++
			metrics.RecordArticle(category, metrics.ArticleRejected)
			continue
		}

		inserted, err := s.articles.InsertIfAbsent(ctx, &article)
		if err != nil {
			stats.Errors++
			metrics.RecordArticle(category, metrics.ArticleFailed)
			s.logger.Error("failed to save article",
				"url", article.URL,
				"category", article.Category,
				"error", err,
			)
			continue
		}
		if !inserted {
			stats.Duplicates++
			metrics.RecordArticle(category, metrics.ArticleDuplicate)
			continue
		}

		stats.Inserted++
		metrics.RecordArticle(category, metrics.ArticleInserted)

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, &article); err != nil {
				stats.Errors++
				s.logger.Warn("failed to publish article", "url", article.URL, "error", err)
			} else {
				stats.Published++
			}
		}
	}
}

func (s *IngestionService) updateState(ctx context.Context, stats *domain.IngestStats) error {
	state, err := s.state.Get(ctx, s.source.ID())
	if err != nil {
		return err
	}

	state.SourceID = s.source.ID()
	state.LastRunAt = s.clock.now()
	state.LastInserted = int64(stats.Inserted)
	state.TotalInserted += int64(stats.Inserted)

	return s.state.Update(ctx, state)
}
