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

// PreferenceHandler serves the signed-in teacher's UI state.
type PreferenceHandler struct {
	prefs *service.PreferenceService
	log   zerolog.Logger
}

func NewPreferenceHandler(prefs *service.PreferenceService, log zerolog.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, log: log.With().Str("component", "preference_handler").Logger()}
}

// Get godoc
// GET /api/v1/preferences
func (h *PreferenceHandler) Get(c *gin.Context) {
	session := middleware.GetSession(c)
	prefs, err := h.prefs.Get(c.Request.Context(), session.Teacher.ID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"preferences": prefs})
}

// Update godoc
// PUT /api/v1/preferences
// Merges the given keys into the stored preferences.
func (h *PreferenceHandler) Update(c *gin.Context) {
	var req model.UpdatePreferencesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session := middleware.GetSession(c)
	prefs, err := h.prefs.Update(c.Request.Context(), session.Teacher.ID, req.Preferences)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"preferences": prefs})
}

// Reset godoc
// DELETE /api/v1/preferences
func (h *PreferenceHandler) Reset(c *gin.Context) {
	session := middleware.GetSession(c)
	if err := h.prefs.Reset(c.Request.Context(), session.Teacher.ID); err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
