package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/middleware"
	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/navigation"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
	"github.com/wawa-academy/erp-server/internal/validator"
)

// rosterWait bounds how long GET /auth/teachers?wait=true blocks.
const rosterWait = 10 * time.Second

// AuthHandler handles the login screen and the session lifecycle.
type AuthHandler struct {
	authService *service.AuthService
	sessions    *service.SessionController
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, sessions *service.SessionController, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

type rosterView struct {
	Status   service.RosterStatus  `json:"status"`
	Teachers []model.TeacherOption `json:"teachers"`
	Error    string                `json:"error,omitempty"`
}

func viewRoster(r *service.Roster) rosterView {
	v := rosterView{Status: r.Status(), Teachers: r.Options()}
	if v.Teachers == nil {
		v.Teachers = []model.TeacherOption{}
	}
	if _, err := r.Teachers(); err != nil && v.Status == service.RosterFailed {
		v.Error = err.Error()
	}
	return v
}

// ListTeachers godoc
// GET /api/v1/auth/teachers
// Returns the login roster and its status. "ready" with no teachers means the
// teachers database is empty. With ?wait=true the call blocks until the
// roster settles.
func (h *AuthHandler) ListTeachers(c *gin.Context) {
	roster, err := h.sessions.Roster()
	if err != nil {
		fail(c, h.log, err)
		return
	}

	if c.Query("wait") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), rosterWait)
		defer cancel()
		if _, err := roster.Wait(ctx); err != nil && errors.Is(err, service.ErrRosterSuperseded) {
			if latest, err := h.sessions.Roster(); err == nil {
				roster = latest
			}
		}
	}
	response.Success(c, http.StatusOK, viewRoster(roster))
}

// RefreshTeachers godoc
// POST /api/v1/auth/teachers/refresh
// Starts a new roster fetch, for a teachers database still being filled in.
func (h *AuthHandler) RefreshTeachers(c *gin.Context) {
	roster, err := h.sessions.RefreshRoster()
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusAccepted, viewRoster(roster))
}

// Login godoc
// POST /api/v1/auth/login
// Checks the PIN of the selected teacher and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessions.Login(req.TeacherID, req.PIN)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	token, err := h.authService.GenerateToken(session)
	if err != nil {
		h.log.Error().Err(err).Msg("Sign session token")
		_ = h.sessions.Logout(c.Request.Context())
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"session": session,
		"shell":   navigation.Build(session, ""),
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Ends the session and clears the teacher's saved UI state. The workspace
// configuration is kept.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		if errors.Is(err, service.ErrNoSession) {
			fail(c, h.log, err)
			return
		}
		// The session is gone already; only the preference cleanup failed.
		h.log.Warn().Err(err).Msg("Logout cleanup")
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the signed-in teacher.
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}
