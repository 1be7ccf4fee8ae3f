package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"news_hub/internal/report"
	"news_hub/internal/service"
)

type sendReportRequest struct {
	Date  string `form:"date" validate:"required,datetime=2006-01-02"`
	Email string `form:"email" validate:"required,email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ReportHandler handles POST /send-report.
type ReportHandler struct {
	reports ReportSender
	logger  *slog.Logger
}

func NewReportHandler(reports ReportSender, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

func (h *ReportHandler) Handle(c echo.Context) error {
	var req sendReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	locale := report.MatchLocale(c.Request().Header.Get("Accept-Language"))
	messages := report.Localize(locale)

	err := h.reports.Send(c.Request().Context(), mustParseDay(req.Date), req.Email, locale)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, messageResponse{Message: messages.Sent})
	case errors.Is(err, service.ErrNoData):
		return echo.NewHTTPError(http.StatusNotFound, messages.NoData)
	case errors.Is(err, service.ErrReportRender):
		return echo.NewHTTPError(http.StatusInternalServerError, messages.RenderError).SetInternal(err)
	case errors.Is(err, service.ErrReportDelivery):
		return echo.NewHTTPError(http.StatusInternalServerError, messages.SendError).SetInternal(err)
	default:
		return mapServiceError(err)
	}
}
