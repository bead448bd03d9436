package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
	// ContextKeySession is the Gin context key for the active session.
	ContextKeySession = "session"
)

// SessionAuthorizer resolves a token id to the live session.
type SessionAuthorizer interface {
	Authorize(tokenID string) (*model.Session, error)
}

// RequireSession validates the session token from the Authorization header,
// or from ?token= for WebSocket upgrades, and checks that it belongs to the
// session currently signed in. Tokens of a logged-out session are rejected
// even before they expire.
func RequireSession(authService *service.AuthService, sessions SessionAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, authService, sessions) {
			return
		}
		c.Next()
	}
}

// authenticate stores the claims and the session on c, or aborts with 401.
func authenticate(c *gin.Context, authService *service.AuthService, sessions SessionAuthorizer) bool {
	tokenStr := extractToken(c)
	if tokenStr == "" {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return false
	}

	claims, err := authService.ValidateToken(tokenStr)
	if err != nil {
		code := response.ErrTokenInvalid
		if errors.Is(err, jwt.ErrTokenExpired) {
			code = response.ErrTokenExpired
		}
		response.AbortFail(c, http.StatusUnauthorized, code)
		return false
	}

	session, err := sessions.Authorize(claims.ID)
	if err != nil {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
		return false
	}

	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeySession, session)
	return true
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetSession retrieves the session stored by RequireSession.
func GetSession(c *gin.Context) *model.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	session, ok := val.(*model.Session)
	if !ok {
		return nil
	}
	return session
}

func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	// Browsers cannot set headers on a WebSocket handshake.
	return c.Query("token")
}
