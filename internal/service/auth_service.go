package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wawa-academy/erp-server/internal/config"
	"github.com/wawa-academy/erp-server/internal/model"
)

// Claims extends JWT standard claims with the signed-in teacher.
type Claims struct {
	jwt.RegisteredClaims
	TeacherID string `json:"teacher_id"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"is_admin"`
}

// AuthService issues and parses session tokens. The token id (jti) is the
// session's TokenID, so a token dies with its session.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// GenerateToken signs a token for session. The token expires with the
// session.
func (s *AuthService) GenerateToken(session *model.Session) (string, error) {
	now := time.Now()
	expiresAt := session.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(s.cfg.JWTExpiry)
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.TokenID,
			Subject:   session.Teacher.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TeacherID: session.Teacher.ID,
		Name:      session.Teacher.Name,
		IsAdmin:   session.IsAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
