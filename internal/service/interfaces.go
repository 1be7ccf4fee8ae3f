package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"news_hub/internal/domain"
)

type ArticleStore interface {
	Exists(ctx context.Context, category domain.Category, date time.Time) (bool, error)
	InsertIfAbsent(ctx context.Context, article *domain.Article) (bool, error)
}

type ArticleReader interface {
	ListByDate(ctx context.Context, date time.Time, limit int) ([]domain.Article, error)
	ListByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.Article, error)
	ListByCategoryAndDate(ctx context.Context, category domain.Category, date time.Time, limit int) ([]domain.Article, error)
	Search(ctx context.Context, term string, date *time.Time, limit int) ([]domain.Article, error)
	CountByCategory(ctx context.Context, date time.Time, categories []domain.Category) (map[domain.Category]int, error)
	CountByDay(ctx context.Context, from, to time.Time) (map[string]int, error)
}

type StateStore interface {
	Get(ctx context.Context, sourceID string) (*domain.IngestState, error)
	Update(ctx context.Context, state *domain.IngestState) error
}

type Source interface {
	ID() string
	Name() string
	Fetch(ctx context.Context, unit domain.WorkUnit) ([]domain.RawArticle, error)
}

type Publisher interface {
	Publish(ctx context.Context, article *domain.Article) error
	Close() error
}

type ReportRenderer interface {
	Render(report *domain.Report) (*domain.ReportDocument, error)
}

type Mailer interface {
	Send(ctx context.Context, email *domain.Email) error
}

type Assistant interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type ConversationStore interface {
	Load(sessionID string) domain.Conversation
	Save(conversation domain.Conversation)
}
