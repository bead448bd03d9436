package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
	"github.com/wawa-academy/erp-server/internal/validator"
)

// ScheduleHandler serves monthly exam dates.
type ScheduleHandler struct {
	schedule *service.ScheduleService
	log      zerolog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, log: log.With().Str("component", "schedule_handler").Logger()}
}

// List godoc
// GET /api/v1/exam-schedule?year_month=2026-10
func (h *ScheduleHandler) List(c *gin.Context) {
	var q yearMonthQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	schedules, err := h.schedule.List(c.Request.Context(), q.YearMonth)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schedules": schedules})
}

// BulkAssign godoc
// POST /api/v1/exam-schedule/bulk
// Sets one exam date for many students. Per-student failures are listed in
// the result; the call fails only when Notion itself is unusable.
func (h *ScheduleHandler) BulkAssign(c *gin.Context) {
	var req model.BulkExamDateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.schedule.BulkAssign(c.Request.Context(), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
