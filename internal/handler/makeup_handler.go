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

// MakeupHandler serves makeup class records.
type MakeupHandler struct {
	makeups *service.MakeupService
	log     zerolog.Logger
}

// NewMakeupHandler creates a new MakeupHandler.
func NewMakeupHandler(makeups *service.MakeupService, log zerolog.Logger) *MakeupHandler {
	return &MakeupHandler{makeups: makeups, log: log.With().Str("component", "makeup_handler").Logger()}
}

// List godoc
// GET /api/v1/makeups?status=진행 중
func (h *MakeupHandler) List(c *gin.Context) {
	var q model.MakeupListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	makeups, err := h.makeups.List(c.Request.Context(), q.Status)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"makeups": makeups})
}

// Create godoc
// POST /api/v1/makeups
func (h *MakeupHandler) Create(c *gin.Context) {
	var req model.CreateMakeupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	makeup, err := h.makeups.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"makeup": makeup})
}

// Update godoc
// PATCH /api/v1/makeups/:id
func (h *MakeupHandler) Update(c *gin.Context) {
	var req model.UpdateMakeupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	makeup, err := h.makeups.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"makeup": makeup})
}

// Delete godoc
// DELETE /api/v1/makeups/:id
func (h *MakeupHandler) Delete(c *gin.Context) {
	if err := h.makeups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
