package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/model"
)

var (
	ErrSessionActive   = errors.New("a teacher is already signed in")
	ErrNoSession       = errors.New("no active session")
	ErrSessionInvalid  = errors.New("session invalidated")
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrPinMismatch     = errors.New("pin does not match")
)

const pinLength = 4

// TeacherDirectory lists login-eligible teachers.
type TeacherDirectory interface {
	ListTeachers(ctx context.Context) ([]model.TeacherRecord, error)
}

// PreferenceClearer drops the UI state persisted for a teacher.
type PreferenceClearer interface {
	Clear(ctx context.Context, teacherID string) error
}

// SessionController is the login state machine of the installation. It holds
// at most one session: the teacher using this desktop. A session ends on
// logout, on reconfiguration, when it expires or when another PIN login
// replaces it.
type SessionController struct {
	baseCtx context.Context
	prefs   PreferenceClearer
	ttl     time.Duration
	log     zerolog.Logger
	now     func() time.Time

	mu          sync.Mutex
	state       model.LoginState
	generation  uint64
	directory   TeacherDirectory
	roster      *Roster
	cancelFetch context.CancelFunc
	session     *model.Session
	lastError   string
}

// NewSessionController creates a controller in the Unconfigured state. Roster
// fetches run under ctx. Sessions last ttl, the lifetime of their token; a
// non-positive ttl never expires them.
func NewSessionController(ctx context.Context, prefs PreferenceClearer, ttl time.Duration, log zerolog.Logger) *SessionController {
	return &SessionController{
		baseCtx: ctx,
		prefs:   prefs,
		ttl:     ttl,
		log:     log.With().Str("component", "session").Logger(),
		now:     time.Now,
		state:   model.StateUnconfigured,
	}
}

// Bootstrap moves the controller to AwaitingLogin for a (new) workspace. Any
// session is discarded and a fresh roster fetch starts; results of fetches
// started for an earlier workspace are dropped.
func (c *SessionController) Bootstrap(dir TeacherDirectory) *Roster {
	c.mu.Lock()
	ended := c.endSessionLocked("reconfiguration")
	c.generation++
	c.directory = dir
	c.lastError = ""
	c.state = model.StateAwaitingLogin
	roster := c.startFetchLocked()
	c.mu.Unlock()

	c.clearPreferences(ended)
	return roster
}

// endSessionLocked drops the session and returns its teacher id, whose
// preferences the caller clears once the lock is released.
func (c *SessionController) endSessionLocked(reason string) string {
	if c.session == nil {
		return ""
	}
	teacherID := c.session.Teacher.ID
	c.session = nil
	if c.state == model.StateAuthenticated {
		c.state = model.StateAwaitingLogin
	}
	c.log.Info().Str("teacher_id", teacherID).Str("reason", reason).Msg("Session ended")
	return teacherID
}

// expireLocked ends the session once its token can no longer be used.
func (c *SessionController) expireLocked() string {
	if c.session == nil || !c.session.Expired(c.now()) {
		return ""
	}
	return c.endSessionLocked("expired")
}

func (c *SessionController) clearPreferences(teacherID string) {
	if teacherID == "" {
		return
	}
	if err := c.prefs.Clear(c.baseCtx, teacherID); err != nil {
		c.log.Warn().Err(err).Str("teacher_id", teacherID).Msg("Clear preferences")
	}
}

func (c *SessionController) startFetchLocked() *Roster {
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	if c.roster != nil {
		c.roster.settle(nil, ErrRosterSuperseded)
	}

	gen := c.generation
	roster := newRoster(gen)
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.roster = roster
	c.cancelFetch = cancel

	dir := c.directory
	go func() {
		defer cancel()
		teachers, err := dir.ListTeachers(ctx)
		c.finishFetch(roster, teachers, err)
	}()
	return roster
}

func (c *SessionController) finishFetch(roster *Roster, teachers []model.TeacherRecord, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if roster.generation != c.generation || roster != c.roster {
		roster.settle(nil, ErrRosterSuperseded)
		c.log.Debug().Uint64("generation", roster.generation).Msg("Stale teacher roster discarded")
		return
	}
	if err != nil {
		roster.settle(nil, fmt.Errorf("fetch teachers: %w", err))
		c.lastError = err.Error()
		c.log.Warn().Err(err).Msg("Teacher roster fetch failed")
		return
	}
	roster.settle(teachers, nil)
	c.log.Info().Int("teachers", len(teachers)).Uint64("generation", roster.generation).Msg("Teacher roster loaded")
}

// RefreshRoster starts a new fetch of the teacher list for the current
// workspace.
func (c *SessionController) RefreshRoster() (*Roster, error) {
	c.mu.Lock()
	ended := c.expireLocked()
	defer func() {
		c.mu.Unlock()
		c.clearPreferences(ended)
	}()

	switch c.state {
	case model.StateUnconfigured:
		return nil, ErrUnconfigured
	case model.StateAuthenticated:
		return nil, ErrSessionActive
	}
	c.lastError = ""
	return c.startFetchLocked(), nil
}

// Roster returns the latest teacher roster.
func (c *SessionController) Roster() (*Roster, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == model.StateUnconfigured {
		return nil, ErrUnconfigured
	}
	return c.roster, nil
}

// Login authenticates teacherID with pin. The roster must have settled; the
// PIN must have exactly four characters and equal the teacher's PIN. A
// successful login replaces any current session, so a teacher whose token was
// lost can sign in again. A failed one leaves the current session alone.
func (c *SessionController) Login(teacherID, pin string) (*model.Session, error) {
	c.mu.Lock()
	var ended []string
	defer func() {
		c.mu.Unlock()
		for _, id := range ended {
			c.clearPreferences(id)
		}
	}()

	ended = append(ended, c.expireLocked())
	if c.state == model.StateUnconfigured {
		return nil, ErrUnconfigured
	}

	teachers, err := c.roster.Teachers()
	if err != nil {
		return nil, err
	}

	signedIn := c.state == model.StateAuthenticated
	if !signedIn {
		c.state = model.StateAuthenticating
	}
	record, err := matchTeacher(teachers, teacherID, pin)
	if err != nil {
		if !signedIn {
			c.state = model.StateAwaitingLogin
		}
		c.lastError = err.Error()
		c.log.Info().Str("teacher_id", teacherID).Err(err).Msg("Login rejected")
		return nil, err
	}

	ended = append(ended, c.endSessionLocked("replaced by login"))
	now := c.now()
	c.session = &model.Session{
		Teacher:       model.SessionTeacher{ID: record.ID, Name: record.Name},
		IsAdmin:       record.IsAdmin,
		Subjects:      append([]string(nil), record.Subjects...),
		TokenID:       uuid.New().String(),
		EstablishedAt: now,
	}
	if c.ttl > 0 {
		c.session.ExpiresAt = now.Add(c.ttl)
	}
	c.state = model.StateAuthenticated
	c.lastError = ""

	c.log.Info().
		Str("teacher_id", record.ID).
		Bool("admin", record.IsAdmin).
		Msg("Teacher signed in")
	s := *c.session
	return &s, nil
}

func matchTeacher(teachers []model.TeacherRecord, teacherID, pin string) (*model.TeacherRecord, error) {
	for i := range teachers {
		if teachers[i].ID != teacherID {
			continue
		}
		t := &teachers[i]
		if len(pin) != pinLength || subtle.ConstantTimeCompare([]byte(pin), []byte(t.PIN)) != 1 {
			return nil, ErrPinMismatch
		}
		return t, nil
	}
	return nil, ErrTeacherNotFound
}

// Logout ends the session and clears the teacher's persisted UI preferences.
// The workspace stays configured.
func (c *SessionController) Logout(ctx context.Context) error {
	c.mu.Lock()
	expired := c.expireLocked()
	if c.session == nil {
		c.mu.Unlock()
		c.clearPreferences(expired)
		return ErrNoSession
	}
	teacherID := c.session.Teacher.ID
	c.session = nil
	c.state = model.StateAwaitingLogin
	c.lastError = ""
	c.mu.Unlock()

	c.log.Info().Str("teacher_id", teacherID).Msg("Teacher signed out")
	if err := c.prefs.Clear(ctx, teacherID); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}
	return nil
}

// Session returns a copy of the active session.
func (c *SessionController) Session() (*model.Session, bool) {
	c.mu.Lock()
	ended := c.expireLocked()
	var s *model.Session
	if c.session != nil {
		cp := *c.session
		s = &cp
	}
	c.mu.Unlock()

	c.clearPreferences(ended)
	return s, s != nil
}

// Authorize returns the active session if its token id is tokenID and it has
// not expired.
func (c *SessionController) Authorize(tokenID string) (*model.Session, error) {
	c.mu.Lock()
	ended := c.expireLocked()
	var s *model.Session
	if c.session != nil && c.session.TokenID == tokenID {
		cp := *c.session
		s = &cp
	}
	c.mu.Unlock()

	c.clearPreferences(ended)
	if s == nil {
		return nil, ErrSessionInvalid
	}
	return s, nil
}

// State returns the current state and the last login or fetch error.
func (c *SessionController) State() (model.LoginState, string) {
	c.mu.Lock()
	ended := c.expireLocked()
	state, lastErr := c.state, c.lastError
	c.mu.Unlock()

	c.clearPreferences(ended)
	return state, lastErr
}

// Close cancels any roster fetch in flight.
func (c *SessionController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
}
