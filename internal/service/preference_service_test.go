package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceService(t *testing.T) {
	ctx := context.Background()
	svc := NewPreferenceService(newMemPreferences())

	got, err := svc.Get(ctx, "t-seo")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = svc.Update(ctx, "t-seo", map[string]string{"year_month": "2026-10", "module": "grader"})
	require.NoError(t, err)
	assert.Equal(t, "grader", got["module"])

	got, err = svc.Update(ctx, "t-seo", map[string]string{"module": "report"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"year_month": "2026-10", "module": "report"}, got)

	other, err := svc.Get(ctx, "t-ji")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, svc.Reset(ctx, "t-seo"))
	got, err = svc.Get(ctx, "t-seo")
	require.NoError(t, err)
	assert.Empty(t, got)
}
