package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"news_hub/internal/domain"
)

const (
	SourceID   = "newsapi"
	SourceName = "News API"
)

// Config holds News API client configuration.
type Config struct {
	BaseURL       string
	APIKey        string
	Language      string
	PageSize      int
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Source fetches one (category, day) slice of the News API per call. It
// never retries: a failed unit is picked up again by the next run.
type Source struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
	pageSize   int
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a new News API source.
func New(cfg Config, logger *slog.Logger) *Source {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		pageSize: cfg.PageSize,
		limiter:  limiter,
		logger:   logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// Fetch searches for the category keyword over a single calendar day.
func (s *Source) Fetch(ctx context.Context, unit domain.WorkUnit) ([]domain.RawArticle, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	resp, err := s.doRequest(ctx, s.requestURL(unit))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetched unit",
		"category", unit.Category,
		"date", unit.Day(),
		"articles", len(resp.Articles),
		"total_results", resp.TotalResults,
	)

	return s.transform(resp.Articles), nil
}

func (s *Source) requestURL(unit domain.WorkUnit) string {
	day := unit.Day()

	q := url.Values{}
	q.Set("q", unit.Category.String())
	q.Set("from", day)
	q.Set("to", day)
	q.Set("sortBy", "publishedAt")
	if s.language != "" {
		q.Set("language", s.language)
	}
	if s.pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(s.pageSize))
	}

	return s.baseURL + "?" + q.Encode()
}

func (s *Source) doRequest(ctx context.Context, endpoint string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "NewsHub/1.0")
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr APIResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("unexpected status: %d: %s: %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}

// transform maps payloads one-to-one; an unparsable timestamp is left zero
// so the completeness gate rejects the article.
func (s *Source) transform(payloads []Payload) []domain.RawArticle {
	articles := make([]domain.RawArticle, 0, len(payloads))

	for _, p := range payloads {
		raw := domain.RawArticle{
			Title:       p.Title,
			Description: p.Description,
			URL:         p.URL,
			Source:      p.Source.Name,
		}

		if p.PublishedAt != "" {
			publishedAt, err := time.Parse(time.RFC3339, p.PublishedAt)
			if err != nil {
				s.logger.Warn("failed to parse date",
					"url", p.URL,
					"date", p.PublishedAt,
				)
			} else {
				raw.PublishedAt = publishedAt
			}
		}

		articles = append(articles, raw)
	}

	return articles
}
