package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"news_hub/internal/domain"
)

// Result caps of the read endpoints.
const (
	LatestNewsLimit   = 10
	CategoryNewsLimit = 20
	SearchLimit       = 50
	WeeklyWindowDays  = 7
)

// QueryService serves the read-only projections over stored articles.
type QueryService struct {
	articles   ArticleReader
	categories []domain.Category
	clock      Clock
}

func NewQueryService(articles ArticleReader, categories []domain.Category, clock Clock) *QueryService {
	if len(categories) == 0 {
		categories = domain.Categories
	}
	return &QueryService{
		articles:   articles,
		categories: categories,
		clock:      clock,
	}
}

func (s *QueryService) Categories() []domain.Category {
	return s.categories
}

// ReferenceDate is yesterday, the day the dashboard summarises by default.
func (s *QueryService) ReferenceDate() time.Time {
	return domain.Day(s.clock.now()).AddDate(0, 0, -1)
}

func (s *QueryService) LatestNews(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.articles.ListByDate(ctx, s.ReferenceDate(), LatestNewsLimit)
	if err != nil {
		return nil, fmt.Errorf("list latest news: %w", err)
	}
	return articles, nil
}

func (s *QueryService) NewsByDate(ctx context.Context, date time.Time) ([]domain.Article, error) {
	articles, err := s.articles.ListByDate(ctx, date, 0)
	if err != nil {
		return nil, fmt.Errorf("list news by date: %w", err)
	}
	return articles, nil
}

func (s *QueryService) NewsByCategory(ctx context.Context, category domain.Category) ([]domain.Article, error) {
	articles, err := s.articles.ListByCategory(ctx, category, CategoryNewsLimit)
	if err != nil {
		return nil, fmt.Errorf("list news by category: %w", err)
	}
	return articles, nil
}

func (s *QueryService) NewsByCategoryAndDate(ctx context.Context, category domain.Category, date time.Time) ([]domain.Article, error) {
	articles, err := s.articles.ListByCategoryAndDate(ctx, category, date, 0)
	if err != nil {
		return nil, fmt.Errorf("list news by category and date: %w", err)
	}
	return articles, nil
}

func (s *QueryService) Search(ctx context.Context, term string, date *time.Time) ([]domain.Article, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidRequest)
	}

	articles, err := s.articles.Search(ctx, term, date, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search news: %w", err)
	}
	return articles, nil
}

// CategoryCounts returns the number of articles per category on date,
// zero-filled for every known category.
func (s *QueryService) CategoryCounts(ctx context.Context, date time.Time) (map[domain.Category]int, error) {
	counts, err := s.articles.CountByCategory(ctx, date, s.categories)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}

	result := make(map[domain.Category]int, len(s.categories))
	for _, c := range s.categories {
		result[c] = counts[c]
	}
	return result, nil
}

// WeeklyCounts returns article counts for each day of the trailing week
// ending today, keyed by ISO date and zero-filled.
func (s *QueryService) WeeklyCounts(ctx context.Context) (map[string]int, error) {
	to := domain.Day(s.clock.now())
	from := to.AddDate(0, 0, -(WeeklyWindowDays - 1))

	counts, err := s.articles.CountByDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("count by day: %w", err)
	}

	result := make(map[string]int, WeeklyWindowDays)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(domain.DateLayout)
		result[key] = counts[key]
	}
	return result, nil
}
