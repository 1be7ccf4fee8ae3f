package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"news_hub/internal/domain"
)

// ReportService renders the daily report and mails it.
type ReportService struct {
	articles   ArticleReader
	renderer   ReportRenderer
	mailer     Mailer
	categories []domain.Category
	logger     *slog.Logger
}

func NewReportService(
	articles ArticleReader,
	renderer ReportRenderer,
	mailer Mailer,
	categories []domain.Category,
	logger *slog.Logger,
) *ReportService {
	if len(categories) == 0 {
		categories = domain.Categories
	}
	return &ReportService{
		articles:   articles,
		renderer:   renderer,
		mailer:     mailer,
		categories: categories,
		logger:     logger.With("component", "report"),
	}
}

// Send builds the report for date in locale and emails it to recipient.
// A mail failure is returned to the caller instead of being reported as sent.
func (s *ReportService) Send(ctx context.Context, date time.Time, recipient, locale string) error {
	if s.mailer == nil {
		return fmt.Errorf("%w: smtp", ErrUnavailable)
	}

	report, err := s.Build(ctx, date, locale)
	if err != nil {
		return err
	}

	doc, err := s.renderer.Render(report)
	if err != nil {
		s.logger.Error("failed to render report", "date", date.Format(domain.DateLayout), "error", err)
		return errors.Join(ErrReportRender, err)
	}

	email := &domain.Email{
		To:             recipient,
		Subject:        doc.Subject,
		Body:           doc.Body,
		AttachmentName: doc.FileName,
		Attachment:     doc.Content,
	}
	if err := s.mailer.Send(ctx, email); err != nil {
		s.logger.Error("failed to send report",
			"date", date.Format(domain.DateLayout),
			"recipient", recipient,
			"error", err,
		)
		return errors.Join(ErrReportDelivery, err)
	}

	s.logger.Info("report sent",
		"date", date.Format(domain.DateLayout),
		"recipient", recipient,
		"articles", len(report.Articles),
		"locale", locale,
	)
	return nil
}

// Build gathers the articles and category histogram of date.
func (s *ReportService) Build(ctx context.Context, date time.Time, locale string) (*domain.Report, error) {
	articles, err := s.articles.ListByDate(ctx, date, 0)
	if err != nil {
		return nil, fmt.Errorf("list news by date: %w", err)
	}
	if len(articles) == 0 {
		return nil, ErrNoData
	}

	counts, err := s.articles.CountByCategory(ctx, date, s.categories)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}

	report := &domain.Report{
		Date:     domain.Day(date),
		Locale:   locale,
		Articles: articles,
	}
	for _, c := range s.categories {
		report.Counts = append(report.Counts, domain.CategoryCount{Category: c, Count: counts[c]})
	}
	return report, nil
}
