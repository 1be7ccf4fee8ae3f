package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"news_hub/internal/domain"
	"news_hub/internal/service"
)

var (
	jan1 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan2 = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newContext(method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var httpErr *echo.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected echo.HTTPError, got %v", err)
	assert.Equal(t, code, httpErr.Code)
	return httpErr
}

func zeroCounts() map[domain.Category]int {
	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, c := range domain.Categories {
		counts[c] = 0
	}
	return counts
}

func TestNewsHandler_DailyData(t *testing.T) {
	t.Run("returns zero-filled counts", func(t *testing.T) {
		news := new(MockNewsQuerier)
		counts := zeroCounts()
		counts[domain.CategoryTechnology] = 1
		counts[domain.CategoryHealth] = 1
		news.On("CategoryCounts", mock.Anything, jan1).Return(counts, nil)

		h := NewNewsHandler(news, new(MockIngester), quietLogger())
		c, rec := newContext(http.MethodGet, "/daily-data?date=2025-01-01", nil, "")

		require.NoError(t, h.DailyData(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 7)
		assert.Equal(t, 1, got["technology"])
		assert.Equal(t, 1, got["health"])
		assert.Equal(t, 0, got["business"])
		news.AssertExpectations(t)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		news := new(MockNewsQuerier)
		h := NewNewsHandler(news, new(MockIngester), quietLogger())
		c, _ := newContext(http.MethodGet, "/daily-data?date=01-01-2025", nil, "")

		err := h.DailyData(c)

		httpErr := assertHTTPError(t, err, http.StatusBadRequest)
		assert.Contains(t, fmt.Sprint(httpErr.Message), "date must be a date")
		news.AssertNotCalled(t, "CategoryCounts", mock.Anything, mock.Anything)
	})

	t.Run("requires date", func(t *testing.T) {
		h := NewNewsHandler(new(MockNewsQuerier), new(MockIngester), quietLogger())
		c, _ := newContext(http.MethodGet, "/daily-data", nil, "")

		assertHTTPError(t, h.DailyData(c), http.StatusBadRequest)
	})
}

func TestNewsHandler_DataTriggersIngestion(t *testing.T) {
	news := new(MockNewsQuerier)
	ingester := new(MockIngester)

	ingester.On("Run", mock.Anything).Return(&domain.IngestStats{Inserted: 3}, nil)
	news.On("ReferenceDate").Return(jan1)
	news.On("CategoryCounts", mock.Anything, jan1).Return(zeroCounts(), nil)

	h := NewNewsHandler(news, ingester, quietLogger())
	c, rec := newContext(http.MethodGet, "/data", nil, "")

	require.NoError(t, h.Data(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	ingester.AssertExpectations(t)
	news.AssertExpectations(t)
}

func TestNewsHandler_DataIgnoresIngestionFailure(t *testing.T) {
	news := new(MockNewsQuerier)
	ingester := new(MockIngester)

	ingester.On("Run", mock.Anything).Return(nil, errors.New("context canceled"))
	news.On("ReferenceDate").Return(jan1)
	news.On("CategoryCounts", mock.Anything, jan1).Return(zeroCounts(), nil)

	h := NewNewsHandler(news, ingester, quietLogger())
	c, rec := newContext(http.MethodGet, "/data", nil, "")

	require.NoError(t, h.Data(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewsHandler_Latest(t *testing.T) {
	news := new(MockNewsQuerier)
	news.On("LatestNews", mock.Anything).Return(nil, nil)

	h := NewNewsHandler(news, new(MockIngester), quietLogger())
	c, rec := newContext(http.MethodGet, "/news-data", nil, "")

	require.NoError(t, h.Latest(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestNewsHandler_ByCategory(t *testing.T) {
	t.Run("valid category", func(t *testing.T) {
		news := new(MockNewsQuerier)
		news.On("NewsByCategory", mock.Anything, domain.CategorySports).
			Return([]domain.Article{{Title: "Final", URL: "https://x.test/final", Category: domain.CategorySports}}, nil)

		h := NewNewsHandler(news, new(MockIngester), quietLogger())
		c, rec := newContext(http.MethodGet, "/news-by-category?category=sports", nil, "")

		require.NoError(t, h.ByCategory(c))
		assert.Contains(t, rec.Body.String(), `"title":"Final"`)
	})

	t.Run("unknown category", func(t *testing.T) {
		h := NewNewsHandler(new(MockNewsQuerier), new(MockIngester), quietLogger())
		c, _ := newContext(http.MethodGet, "/news-by-category?category=weather", nil, "")

		assertHTTPError(t, h.ByCategory(c), http.StatusBadRequest)
	})
}

func TestNewsHandler_ByCategoryAndDate(t *testing.T) {
	news := new(MockNewsQuerier)
	news.On("NewsByCategoryAndDate", mock.Anything, domain.CategoryHealth, jan2).Return([]domain.Article{}, nil)

	h := NewNewsHandler(news, new(MockIngester), quietLogger())
	c, rec := newContext(http.MethodGet, "/news-by-category-and-date?category=health&date=2025-01-02", nil, "")

	require.NoError(t, h.ByCategoryAndDate(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	news.AssertExpectations(t)
}

func TestNewsHandler_Search(t *testing.T) {
	t.Run("without date", func(t *testing.T) {
		news := new(MockNewsQuerier)
		news.On("Search", mock.Anything, "market", (*time.Time)(nil)).
			Return([]domain.Article{{Title: "Market Rally"}}, nil)

		h := NewNewsHandler(news, new(MockIngester), quietLogger())
		c, rec := newContext(http.MethodGet, "/search?q=market", nil, "")

		require.NoError(t, h.Search(c))
		assert.Contains(t, rec.Body.String(), "Market Rally")
	})

	t.Run("with date", func(t *testing.T) {
		news := new(MockNewsQuerier)
		news.On("Search", mock.Anything, "rally", mock.MatchedBy(func(d *time.Time) bool {
			return d != nil && d.Equal(jan2)
		})).Return([]domain.Article{}, nil)

		h := NewNewsHandler(news, new(MockIngester), quietLogger())
		c, _ := newContext(http.MethodGet, "/search?q=rally&date=2025-01-02", nil, "")

		require.NoError(t, h.Search(c))
		news.AssertExpectations(t)
	})

	t.Run("missing query", func(t *testing.T) {
		h := NewNewsHandler(new(MockNewsQuerier), new(MockIngester), quietLogger())
		c, _ := newContext(http.MethodGet, "/search", nil, "")

		assertHTTPError(t, h.Search(c), http.StatusBadRequest)
	})
}

func TestNewsHandler_Weekly(t *testing.T) {
	news := new(MockNewsQuerier)
	news.On("WeeklyCounts", mock.Anything).Return(map[string]int{"2025-01-01": 2, "2025-01-02": 0}, nil)

	h := NewNewsHandler(news, new(MockIngester), quietLogger())
	c, rec := newContext(http.MethodGet, "/weekly-data", nil, "")

	require.NoError(t, h.Weekly(c))
	assert.JSONEq(t, `{"2025-01-01":2,"2025-01-02":0}`, rec.Body.String())
}

func TestNewsHandler_StoreFailure(t *testing.T) {
	news := new(MockNewsQuerier)
	news.On("NewsByDate", mock.Anything, jan1).Return(nil, errors.New("connection refused"))

	h := NewNewsHandler(news, new(MockIngester), quietLogger())
	c, _ := newContext(http.MethodGet, "/news-by-date?date=2025-01-01", nil, "")

	assertHTTPError(t, h.ByDate(c), http.StatusInternalServerError)
}

func reportForm() io.Reader {
	return strings.NewReader("date=2025-01-01&email=reader%40example.com")
}

func TestReportHandler(t *testing.T) {
	t.Run("sends localized success message", func(t *testing.T) {
		reports := new(MockReportSender)
		reports.On("Send", mock.Anything, jan1, "reader@example.com", "uk").Return(nil)

		h := NewReportHandler(reports, quietLogger())
		c, rec := newContext(http.MethodPost, "/send-report", reportForm(), echo.MIMEApplicationForm)
		c.Request().Header.Set("Accept-Language", "uk-UA,uk;q=0.9")

		require.NoError(t, h.Handle(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Звіт надіслано!"}`, rec.Body.String())
		reports.AssertExpectations(t)
	})

	t.Run("no data is 404", func(t *testing.T) {
		reports := new(MockReportSender)
		reports.On("Send", mock.Anything, jan1, "reader@example.com", "en").Return(service.ErrNoData)

		h := NewReportHandler(reports, quietLogger())
		c, _ := newContext(http.MethodPost, "/send-report", reportForm(), echo.MIMEApplicationForm)

		httpErr := assertHTTPError(t, h.Handle(c), http.StatusNotFound)
		assert.Equal(t, "No data for this date.", httpErr.Message)
	})

	t.Run("render failure is 500", func(t *testing.T) {
		reports := new(MockReportSender)
		reports.On("Send", mock.Anything, jan1, "reader@example.com", "en").
			Return(errors.Join(service.ErrReportRender, errors.New("png")))

		h := NewReportHandler(reports, quietLogger())
		c, _ := newContext(http.MethodPost, "/send-report", reportForm(), echo.MIMEApplicationForm)

		assertHTTPError(t, h.Handle(c), http.StatusInternalServerError)
	})

	t.Run("delivery failure is not reported as sent", func(t *testing.T) {
		reports := new(MockReportSender)
		reports.On("Send", mock.Anything, jan1, "reader@example.com", "en").
			Return(errors.Join(service.ErrReportDelivery, errors.New("535")))

		h := NewReportHandler(reports, quietLogger())
		c, _ := newContext(http.MethodPost, "/send-report", reportForm(), echo.MIMEApplicationForm)

		httpErr := assertHTTPError(t, h.Handle(c), http.StatusInternalServerError)
		assert.Equal(t, "Failed to send the report.", httpErr.Message)
	})

	t.Run("invalid email", func(t *testing.T) {
		h := NewReportHandler(new(MockReportSender), quietLogger())
		body := strings.NewReader("date=2025-01-01&email=nope")
		c, _ := newContext(http.MethodPost, "/send-report", body, echo.MIMEApplicationForm)

		assertHTTPError(t, h.Handle(c), http.StatusBadRequest)
	})
}

func TestChatHandler(t *testing.T) {
	t.Run("issues a session cookie", func(t *testing.T) {
		chat := new(MockChatResponder)
		chat.On("Reply", mock.Anything, mock.MatchedBy(func(r domain.ChatRequest) bool {
			return r.SessionID != "" && r.Message == "what happened?" && r.Date.Equal(jan1) && r.Category == ""
		})).Return("Markets rallied.", nil)

		h := NewChatHandler(chat)
		body := strings.NewReader(`{"message":"what happened?","date":"2025-01-01"}`)
		c, rec := newContext(http.MethodPost, "/chat", body, echo.MIMEApplicationJSON)

		require.NoError(t, h.Handle(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"response":"Markets rallied."}`, rec.Body.String())

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("reuses the existing session", func(t *testing.T) {
		const sid = "6f1c2c1e-8a7d-4a8e-9a55-2f5e3c1d9b10"
		chat := new(MockChatResponder)
		chat.On("Reply", mock.Anything, domain.ChatRequest{
			SessionID: sid,
			Message:   "and health?",
			Date:      jan1,
			Category:  domain.CategoryHealth,
		}).Return("Nothing new.", nil)

		h := NewChatHandler(chat)
		body := strings.NewReader(`{"message":"and health?","date":"2025-01-01","category":"health"}`)
		c, rec := newContext(http.MethodPost, "/chat", body, echo.MIMEApplicationJSON)
		c.Request().AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})

		require.NoError(t, h.Handle(c))
		assert.Empty(t, rec.Result().Cookies())
		chat.AssertExpectations(t)
	})

	t.Run("missing message", func(t *testing.T) {
		h := NewChatHandler(new(MockChatResponder))
		body := strings.NewReader(`{"date":"2025-01-01"}`)
		c, _ := newContext(http.MethodPost, "/chat", body, echo.MIMEApplicationJSON)

		assertHTTPError(t, h.Handle(c), http.StatusBadRequest)
	})

	t.Run("malformed json", func(t *testing.T) {
		h := NewChatHandler(new(MockChatResponder))
		c, _ := newContext(http.MethodPost, "/chat", strings.NewReader(`{"message":`), echo.MIMEApplicationJSON)

		assertHTTPError(t, h.Handle(c), http.StatusBadRequest)
	})

	t.Run("assistant not configured", func(t *testing.T) {
		chat := new(MockChatResponder)
		chat.On("Reply", mock.Anything, mock.Anything).Return("", service.ErrUnavailable)

		h := NewChatHandler(chat)
		body := strings.NewReader(`{"message":"hi","date":"2025-01-01"}`)
		c, _ := newContext(http.MethodPost, "/chat", body, echo.MIMEApplicationJSON)

		assertHTTPError(t, h.Handle(c), http.StatusServiceUnavailable)
	})
}

func TestStatusHandler(t *testing.T) {
	ingester := new(MockIngester)
	ingester.On("State", mock.Anything).Return(&domain.IngestState{
		SourceID:      "newsapi",
		LastRunAt:     jan1,
		LastInserted:  4,
		TotalInserted: 40,
	}, nil)

	h := NewStatusHandler(ingester)
	c, rec := newContext(http.MethodGet, "/status", nil, "")

	require.NoError(t, h.Handle(c))
	assert.Contains(t, rec.Body.String(), `"total_inserted":40`)
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db := new(MockPinger)
		db.On("PingContext", mock.Anything).Return(nil)

		c, rec := newContext(http.MethodGet, "/healthz", nil, "")
		require.NoError(t, NewHealthHandler(db).Handle(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("database down", func(t *testing.T) {
		db := new(MockPinger)
		db.On("PingContext", mock.Anything).Return(errors.New("refused"))

		c, rec := newContext(http.MethodGet, "/healthz", nil, "")
		require.NoError(t, NewHealthHandler(db).Handle(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"invalid request", fmt.Errorf("%w: message is required", service.ErrInvalidRequest), http.StatusBadRequest},
		{"no data", service.ErrNoData, http.StatusNotFound},
		{"unavailable", fmt.Errorf("%w: smtp", service.ErrUnavailable), http.StatusServiceUnavailable},
		{"render", errors.Join(service.ErrReportRender, errors.New("x")), http.StatusInternalServerError},
		{"delivery", errors.Join(service.ErrReportDelivery, errors.New("x")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, mapServiceError(tt.err).Code)
		})
	}
}

func TestServerRoutes(t *testing.T) {
	news := new(MockNewsQuerier)
	ingester := new(MockIngester)

	ingester.On("Run", mock.Anything).Return(&domain.IngestStats{}, nil)
	news.On("ReferenceDate").Return(jan1)
	news.On("Categories").Return(domain.Categories)
	news.On("CategoryCounts", mock.Anything, jan1).Return(zeroCounts(), nil)
	news.On("LatestNews", mock.Anything).Return([]domain.Article{
		{Title: "Chip launch", URL: "https://x.test/chip", Source: "Wire"},
	}, nil)

	e, err := NewServer(Dependencies{
		News:     news,
		Ingester: ingester,
		Reports:  new(MockReportSender),
		Chat:     new(MockChatResponder),
		DB:       new(MockPinger),
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	t.Run("index renders the page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "News for 2025-01-01")
		assert.Contains(t, rec.Body.String(), `<a href="https://x.test/chip">Chip launch</a>`)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("validation errors are 400 json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news-by-date?date=bad", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"message"`)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
