package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mekarlab/billing-api/internal/service"
	"github.com/mekarlab/billing-api/internal/utils"
)

// ReportHandler handles analytics and export endpoints.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary handles GET /analytics/summary?start&end.
func (h *ReportHandler) Summary(c *gin.Context) {
	start, ok := parseDateParam(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end")
	if !ok {
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, summary)
}

// MonthlyCSV handles GET /export/monthly_csv?year&month.
func (h *ReportHandler) MonthlyCSV(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid or missing year")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid or missing month")
		return
	}

	payload, filename, err := h.reportService.MonthlyCSV(c.Request.Context(), year, month)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/csv", payload)
}

// parseDateParam reads an optional date query parameter, accepting RFC 3339
// or plain YYYY-MM-DD. Absent parameters return a zero time.
func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	utils.Error(c, 400, "INVALID_REQUEST", fmt.Sprintf("Invalid %s date", name))
	return time.Time{}, false
}
