package model

import "time"

// LoginState is a state of the login controller.
type LoginState string

const (
	StateUnconfigured   LoginState = "unconfigured"
	StateAwaitingLogin  LoginState = "awaiting_login"
	StateAuthenticating LoginState = "authenticating"
	StateAuthenticated  LoginState = "authenticated"
)

// SessionTeacher is the part of a TeacherRecord a session keeps.
type SessionTeacher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session is the signed-in teacher.
type Session struct {
	Teacher       SessionTeacher `json:"teacher"`
	IsAdmin       bool           `json:"is_admin"`
	Subjects      []string       `json:"subjects"`
	TokenID       string         `json:"-"`
	EstablishedAt time.Time      `json:"established_at"`
	ExpiresAt     time.Time      `json:"expires_at"`
}

// Expired reports whether the session has reached its expiry at now. A zero
// ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// BootstrapStatus tells the renderer which screen to show at boot.
type BootstrapStatus struct {
	State      LoginState        `json:"state"`
	Configured bool              `json:"configured"`
	Workspace  *WorkspaceSummary `json:"workspace,omitempty"`
	LastError  string            `json:"last_error,omitempty"`
}
