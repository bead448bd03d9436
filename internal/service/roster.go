package service

import (
	"context"
	"errors"
	"sync"

	"github.com/wawa-academy/erp-server/internal/model"
)

// RosterStatus is the state of a teacher roster fetch.
type RosterStatus string

const (
	RosterPending RosterStatus = "pending"
	RosterReady   RosterStatus = "ready"
	RosterFailed  RosterStatus = "failed"
)

var (
	ErrRosterNotReady   = errors.New("teacher roster still loading")
	ErrRosterSuperseded = errors.New("teacher roster superseded by reconfiguration")
)

// Roster is the result of one teacher list fetch. It settles exactly once;
// an empty ready roster means the remote table really is empty.
type Roster struct {
	generation uint64
	done       chan struct{}
	once       sync.Once

	teachers []model.TeacherRecord
	err      error
}

func newRoster(generation uint64) *Roster {
	return &Roster{generation: generation, done: make(chan struct{})}
}

func (r *Roster) settle(teachers []model.TeacherRecord, err error) {
	r.once.Do(func() {
		r.teachers = teachers
		r.err = err
		close(r.done)
	})
}

// Generation identifies the workspace configuration the roster was fetched for.
func (r *Roster) Generation() uint64 { return r.generation }

func (r *Roster) Status() RosterStatus {
	select {
	case <-r.done:
		if r.err != nil {
			return RosterFailed
		}
		return RosterReady
	default:
		return RosterPending
	}
}

// Teachers returns the settled roster without blocking.
func (r *Roster) Teachers() ([]model.TeacherRecord, error) {
	select {
	case <-r.done:
		return r.teachers, r.err
	default:
		return nil, ErrRosterNotReady
	}
}

// Wait blocks until the roster settles or ctx is done.
func (r *Roster) Wait(ctx context.Context) ([]model.TeacherRecord, error) {
	select {
	case <-r.done:
		return r.teachers, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Options is the select-control view of the roster. PINs never leave the
// controller.
func (r *Roster) Options() []model.TeacherOption {
	teachers, err := r.Teachers()
	if err != nil {
		return nil
	}
	opts := make([]model.TeacherOption, 0, len(teachers))
	for _, t := range teachers {
		opts = append(opts, model.TeacherOption{ID: t.ID, Name: t.Name, Subjects: t.Subjects})
	}
	return opts
}
