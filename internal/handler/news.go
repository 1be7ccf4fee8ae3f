package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"news_hub/internal/domain"
)

type dateQuery struct {
	Date string `query:"date" validate:"required,datetime=2006-01-02"`
}

type categoryQuery struct {
	Category string `query:"category" validate:"required,oneof=business entertainment general health science sports technology"`
}

type categoryDateQuery struct {
	Category string `query:"category" validate:"required,oneof=business entertainment general health science sports technology"`
	Date     string `query:"date" validate:"required,datetime=2006-01-02"`
}

type searchQuery struct {
	Q    string `query:"q" validate:"required,max=200"`
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

// NewsHandler serves the read-only news endpoints.
type NewsHandler struct {
	news     NewsQuerier
	ingester Ingester
	logger   *slog.Logger
}

func NewNewsHandler(news NewsQuerier, ingester Ingester, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{news: news, ingester: ingester, logger: logger}
}

// Data runs an ingestion and returns the category counts of the reference date.
func (h *NewsHandler) Data(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.ingester.Run(ctx); err != nil {
		h.logger.Warn("ingestion before /data failed", "error", err)
	}

	counts, err := h.news.CategoryCounts(ctx, h.news.ReferenceDate())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *NewsHandler) DailyData(c echo.Context) error {
	var q dateQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	counts, err := h.news.CategoryCounts(c.Request().Context(), mustParseDay(q.Date))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *NewsHandler) Latest(c echo.Context) error {
	articles, err := h.news.LatestNews(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, nonNil(articles))
}

func (h *NewsHandler) ByDate(c echo.Context) error {
	var q dateQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	articles, err := h.news.NewsByDate(c.Request().Context(), mustParseDay(q.Date))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, nonNil(articles))
}

func (h *NewsHandler) ByCategory(c echo.Context) error {
	var q categoryQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	articles, err := h.news.NewsByCategory(c.Request().Context(), domain.Category(q.Category))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, nonNil(articles))
}

func (h *NewsHandler) ByCategoryAndDate(c echo.Context) error {
	var q categoryDateQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	articles, err := h.news.NewsByCategoryAndDate(
		c.Request().Context(),
		domain.Category(q.Category),
		mustParseDay(q.Date),
	)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, nonNil(articles))
}

func (h *NewsHandler) Weekly(c echo.Context) error {
	counts, err := h.news.WeeklyCounts(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *NewsHandler) Search(c echo.Context) error {
	var q searchQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	var date *time.Time
	if q.Date != "" {
		d := mustParseDay(q.Date)
		date = &d
	}

	articles, err := h.news.Search(c.Request().Context(), q.Q, date)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, nonNil(articles))
}

// mustParseDay parses a date already checked by the datetime rule.
func mustParseDay(s string) time.Time {
	d, _ := domain.ParseDay(s)
	return d
}

// nonNil makes empty results encode as [] instead of null.
func nonNil(articles []domain.Article) []domain.Article {
	if articles == nil {
		return []domain.Article{}
	}
	return articles
}
