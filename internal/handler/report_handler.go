package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/middleware"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves monthly report cards.
type ReportHandler struct {
	reports *service.ReportService
	log     zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *service.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log.With().Str("component", "report_handler").Logger()}
}

// yearMonthParam reads :year_month, answering 400 when it is not YYYY-MM.
func yearMonthParam(c *gin.Context) (string, bool) {
	ym := c.Param("year_month")
	if _, err := time.Parse("2006-01", ym); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"year_month": "year_month must be YYYY-MM",
		})
		return "", false
	}
	return ym, true
}

// Monthly godoc
// GET /api/v1/reports/:year_month
func (h *ReportHandler) Monthly(c *gin.Context) {
	ym, ok := yearMonthParam(c)
	if !ok {
		return
	}
	report, err := h.reports.Monthly(c.Request.Context(), middleware.GetSession(c), ym)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// Export godoc
// GET /api/v1/reports/:year_month/export
// Downloads the monthly report as an .xlsx workbook.
func (h *ReportHandler) Export(c *gin.Context) {
	ym, ok := yearMonthParam(c)
	if !ok {
		return
	}

	// Built in memory so a failure can still be answered with JSON.
	var buf bytes.Buffer
	if err := h.reports.Export(c.Request.Context(), middleware.GetSession(c), ym, &buf); err != nil {
		fail(c, h.log, err)
		return
	}

	name := fmt.Sprintf("월간리포트_%s.xlsx", ym)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s.xlsx"; filename*=UTF-8''%s`, ym, url.PathEscape(name)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
