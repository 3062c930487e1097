package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/services"
)

func (h *Handler) ExportTasksReport(c echo.Context) error {
	report, err := h.reportService.ExportTasks(c.Request().Context())
	if err != nil {
		return fmt.Errorf("export tasks report: %w", err)
	}
	return sendReport(c, report)
}

func (h *Handler) ExportUsersReport(c echo.Context) error {
	report, err := h.reportService.ExportUsers(c.Request().Context())
	if err != nil {
		return fmt.Errorf("export users report: %w", err)
	}
	return sendReport(c, report)
}

func sendReport(c echo.Context, report *services.Report) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", report.Filename))
	return c.Blob(http.StatusOK, services.SpreadsheetContentType, report.Content.Bytes())
}
