package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/middleware"
	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
	"github.com/wawa-academy/erp-server/internal/validator"
)

// yearMonthQuery selects a month, e.g. ?year_month=2026-10.
type yearMonthQuery struct {
	YearMonth string `form:"year_month" json:"year_month" binding:"required,datetime=2006-01"`
}

// ScoreHandler serves the grading screen.
type ScoreHandler struct {
	scores *service.ScoreService
	log    zerolog.Logger
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scores *service.ScoreService, log zerolog.Logger) *ScoreHandler {
	return &ScoreHandler{scores: scores, log: log.With().Str("component", "score_handler").Logger()}
}

// List godoc
// GET /api/v1/scores?year_month=2026-10
func (h *ScoreHandler) List(c *gin.Context) {
	var q yearMonthQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	scores, err := h.scores.List(c.Request.Context(), q.YearMonth)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"scores": scores})
}

// Save godoc
// PUT /api/v1/scores
// Creates or replaces one subject score; the signed-in teacher is recorded
// as the grader.
func (h *ScoreHandler) Save(c *gin.Context) {
	var req model.SaveScoreRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session := middleware.GetSession(c)
	score, err := h.scores.Save(c.Request.Context(), session.Teacher.ID, req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"score": score})
}
