package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medstock/inventory-tracker/internal/core/ports"
)

// ReportHandler serves the reports dashboard and its downloadable export.
type ReportHandler struct {
	service  ports.ReportService
	exporter ports.ReportExporter
}

func NewReportHandler(service ports.ReportService, exporter ports.ReportExporter) *ReportHandler {
	return &ReportHandler{service: service, exporter: exporter}
}

// Summary handles GET /api/reports/summary.
//
// @Summary      Inventory summary
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.ReportSummary
// @Failure      403  {object}  errorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	sum, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

// Export handles GET /api/reports/export.
//
// @Summary      Download the inventory report
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    binary
// @Failure      403  {object}  errorResponse
// @Router       /api/reports/export [get]
func (h *ReportHandler) Export(c echo.Context) error {
	data, err := h.service.Export(c.Request().Context())
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("inventory-report-%s.%s", time.Now().UTC().Format("2006-01-02"), h.exporter.FileExtension())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, h.exporter.ContentType(), data)
}
