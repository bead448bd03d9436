package service

import (
	"context"
)

// PreferenceStore keeps per-teacher UI preferences.
type PreferenceStore interface {
	Get(ctx context.Context, teacherID string) (map[string]string, error)
	Set(ctx context.Context, teacherID string, values map[string]string) error
	Clear(ctx context.Context, teacherID string) error
}

// PreferenceService exposes the signed-in teacher's UI state. Logout clears it
// through the session controller.
type PreferenceService struct {
	store PreferenceStore
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(store PreferenceStore) *PreferenceService {
	return &PreferenceService{store: store}
}

func (s *PreferenceService) Get(ctx context.Context, teacherID string) (map[string]string, error) {
	prefs, err := s.store.Get(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = map[string]string{}
	}
	return prefs, nil
}

// Update merges values into the stored preferences and returns the result.
func (s *PreferenceService) Update(ctx context.Context, teacherID string, values map[string]string) (map[string]string, error) {
	if err := s.store.Set(ctx, teacherID, values); err != nil {
		return nil, err
	}
	return s.Get(ctx, teacherID)
}

func (s *PreferenceService) Reset(ctx context.Context, teacherID string) error {
	return s.store.Clear(ctx, teacherID)
}
