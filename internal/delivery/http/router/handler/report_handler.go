package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"esanspool/internal/delivery/http/middleware"
	"esanspool/internal/delivery/http/response"
	"esanspool/internal/usecase"
)

// ReportHandler holds dependencies for reporting handlers.
type ReportHandler struct {
	uc usecase.ReportUsecase
}

// NewReportHandler is the constructor for ReportHandler, injected by Fx.
func NewReportHandler(uc usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// ConfirmedDemands returns the per-user confirmed-purchase report. Admin only.
func (h *ReportHandler) ConfirmedDemands(c echo.Context) error {
	reports, err := h.uc.ConfirmedDemands(c.Request().Context(), middleware.ActorFromContext(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reports, "")
}

// Dashboard returns the stat cards and chart series of the dashboard.
func (h *ReportHandler) Dashboard(c echo.Context) error {
	summary, err := h.uc.DashboardSummary(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "")
}
