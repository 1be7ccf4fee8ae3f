package handler

import (
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"news_hub/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates implements echo.Renderer over the embedded page templates.
type Templates struct {
	templates *template.Template
}

func NewTemplates() (*Templates, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Templates{templates: t}, nil
}

func (t *Templates) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

type indexPage struct {
	Date     string
	Counts   []domain.CategoryCount
	Articles []domain.Article
}

// IndexHandler runs an ingestion, then renders the home page.
type IndexHandler struct {
	news     NewsQuerier
	ingester Ingester
	logger   *slog.Logger
}

func NewIndexHandler(news NewsQuerier, ingester Ingester, logger *slog.Logger) *IndexHandler {
	return &IndexHandler{news: news, ingester: ingester, logger: logger}
}

func (h *IndexHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.ingester.Run(ctx); err != nil {
		h.logger.Warn("ingestion on page visit failed", "error", err)
	}

	date := h.news.ReferenceDate()
	page := indexPage{Date: date.Format(domain.DateLayout)}

	counts, err := h.news.CategoryCounts(ctx, date)
	if err != nil {
		return mapServiceError(err)
	}
	for _, category := range h.news.Categories() {
		page.Counts = append(page.Counts, domain.CategoryCount{Category: category, Count: counts[category]})
	}

	page.Articles, err = h.news.LatestNews(ctx)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Render(http.StatusOK, "index.html", page)
}
