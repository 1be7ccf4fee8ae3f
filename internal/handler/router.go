// Package handler exposes the news services over HTTP.
package handler

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	News     NewsQuerier
	Ingester Ingester
	Reports  ReportSender
	Chat     ChatResponder
	DB       Pinger
	Logger   *slog.Logger
}

// NewServer builds the echo instance with every route registered.
func NewServer(deps Dependencies) (*echo.Echo, error) {
	templates, err := NewTemplates()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = templates
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(deps.Logger))

	index := NewIndexHandler(deps.News, deps.Ingester, deps.Logger)
	news := NewNewsHandler(deps.News, deps.Ingester, deps.Logger)
	reports := NewReportHandler(deps.Reports, deps.Logger)
	chat := NewChatHandler(deps.Chat)
	status := NewStatusHandler(deps.Ingester)
	health := NewHealthHandler(deps.DB)

	e.GET("/", index.Handle)
	e.GET("/data", news.Data)
	e.GET("/daily-data", news.DailyData)
	e.GET("/news-data", news.Latest)
	e.GET("/news-by-date", news.ByDate)
	e.GET("/news-by-category", news.ByCategory)
	e.GET("/news-by-category-and-date", news.ByCategoryAndDate)
	e.GET("/weekly-data", news.Weekly)
	e.GET("/search", news.Search)
	e.POST("/send-report", reports.Handle)
	e.POST("/chat", chat.Handle)
	e.GET("/status", status.Handle)
	e.GET("/healthz", health.Handle)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/healthz" || path == "/metrics"
		},
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				logger.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"request_id", v.RequestID,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"request_id", v.RequestID,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	})
}
