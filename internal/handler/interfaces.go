package handler

import (
	"context"
	"time"

	"news_hub/internal/domain"
)

type Ingester interface {
	Run(ctx context.Context) (*domain.IngestStats, error)
	State(ctx context.Context) (*domain.IngestState, error)
}

type NewsQuerier interface {
	ReferenceDate() time.Time
	Categories() []domain.Category
	LatestNews(ctx context.Context) ([]domain.Article, error)
	NewsByDate(ctx context.Context, date time.Time) ([]domain.Article, error)
	NewsByCategory(ctx context.Context, category domain.Category) ([]domain.Article, error)
	NewsByCategoryAndDate(ctx context.Context, category domain.Category, date time.Time) ([]domain.Article, error)
	Search(ctx context.Context, term string, date *time.Time) ([]domain.Article, error)
	CategoryCounts(ctx context.Context, date time.Time) (map[domain.Category]int, error)
	WeeklyCounts(ctx context.Context) (map[string]int, error)
}

type ReportSender interface {
	Send(ctx context.Context, date time.Time, recipient, locale string) error
}

type ChatResponder interface {
	Reply(ctx context.Context, req domain.ChatRequest) (string, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}
