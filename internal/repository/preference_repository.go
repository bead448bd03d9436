package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/wawa-academy/erp-server/internal/config"
)

// PreferenceRepository keeps small per-teacher UI state (selected month,
// last opened module) in a Redis hash.
type PreferenceRepository struct {
	rdb *redis.Client
}

func NewPreferenceRepository(rdb *redis.Client) *PreferenceRepository {
	return &PreferenceRepository{rdb: rdb}
}

func (r *PreferenceRepository) Get(ctx context.Context, teacherID string) (map[string]string, error) {
	return r.rdb.HGetAll(ctx, config.CacheKey.PreferencesKey(teacherID)).Result()
}

func (r *PreferenceRepository) Set(ctx context.Context, teacherID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]any, 0, len(values)*2)
	for k, v := range values {
		args = append(args, k, v)
	}
	return r.rdb.HSet(ctx, config.CacheKey.PreferencesKey(teacherID), args...).Err()
}

// Clear drops every preference of the teacher.
func (r *PreferenceRepository) Clear(ctx context.Context, teacherID string) error {
	return r.rdb.Del(ctx, config.CacheKey.PreferencesKey(teacherID)).Err()
}
