package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wawa-academy/erp-server/internal/navigation"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
)

// ConfigurationState reports whether the installation has a workspace.
type ConfigurationState interface {
	Configured() bool
}

// RequireAdminOnceConfigured leaves a route open while no workspace is in
// effect, so the first upload needs no login. Afterwards only a signed-in
// admin passes.
func RequireAdminOnceConfigured(authService *service.AuthService, sessions SessionAuthorizer, workspace ConfigurationState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !workspace.Configured() {
			c.Next()
			return
		}
		if !authenticate(c, authService, sessions) || !allowAdmin(c) {
			return
		}
		c.Next()
	}
}

func allowAdmin(c *gin.Context) bool {
	session := GetSession(c)
	if session == nil {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return false
	}
	if !session.IsAdmin {
		response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
		return false
	}
	return true
}

// RequireScreen guards the API behind a navigation path with the same rule
// the shell uses to show or hide the link.
func RequireScreen(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if !navigation.Allowed(session, path) {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}
		c.Next()
	}
}
