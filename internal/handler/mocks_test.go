package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"news_hub/internal/domain"
)

type MockNewsQuerier struct {
	mock.Mock
}

func (m *MockNewsQuerier) ReferenceDate() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockNewsQuerier) Categories() []domain.Category {
	args := m.Called()
	return args.Get(0).([]domain.Category)
}

func (m *MockNewsQuerier) LatestNews(ctx context.Context) ([]domain.Article, error) {
	args := m.Called(ctx)
	return articlesArg(args, 0), args.Error(1)
}

func (m *MockNewsQuerier) NewsByDate(ctx context.Context, date time.Time) ([]domain.Article, error) {
	args := m.Called(ctx, date)
	return articlesArg(args, 0), args.Error(1)
}

func (m *MockNewsQuerier) NewsByCategory(ctx context.Context, category domain.Category) ([]domain.Article, error) {
	args := m.Called(ctx, category)
	return articlesArg(args, 0), args.Error(1)
}

func (m *MockNewsQuerier) NewsByCategoryAndDate(ctx context.Context, category domain.Category, date time.Time) ([]domain.Article, error) {
	args := m.Called(ctx, category, date)
	return articlesArg(args, 0), args.Error(1)
}

func (m *MockNewsQuerier) Search(ctx context.Context, term string, date *time.Time) ([]domain.Article, error) {
	args := m.Called(ctx, term, date)
	return articlesArg(args, 0), args.Error(1)
}

func (m *MockNewsQuerier) CategoryCounts(ctx context.Context, date time.Time) (map[domain.Category]int, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Category]int), args.Error(1)
}

func (m *MockNewsQuerier) WeeklyCounts(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func articlesArg(args mock.Arguments, i int) []domain.Article {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]domain.Article)
}

type MockIngester struct {
	mock.Mock
}

func (m *MockIngester) Run(ctx context.Context) (*domain.IngestStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestStats), args.Error(1)
}

func (m *MockIngester) State(ctx context.Context) (*domain.IngestState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestState), args.Error(1)
}

type MockReportSender struct {
	mock.Mock
}

func (m *MockReportSender) Send(ctx context.Context, date time.Time, recipient, locale string) error {
	args := m.Called(ctx, date, recipient, locale)
	return args.Error(0)
}

type MockChatResponder struct {
	mock.Mock
}

func (m *MockChatResponder) Reply(ctx context.Context, req domain.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
