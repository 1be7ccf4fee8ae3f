package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"news_hub/internal/service"
)

// mapServiceError converts a service error into an echo.HTTPError.
func mapServiceError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoData):
		return echo.NewHTTPError(http.StatusNotFound, "no data for this date")
	case errors.Is(err, service.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "feature not configured")
	case errors.Is(err, service.ErrReportRender):
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create report")
	case errors.Is(err, service.ErrReportDelivery):
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to send report")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
