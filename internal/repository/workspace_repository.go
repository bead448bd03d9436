package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wawa-academy/erp-server/internal/model"
)

// WorkspaceRepository persists the single workspace document of the
// installation.
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// Get returns the stored workspace, or nil when none has been uploaded yet.
func (r *WorkspaceRepository) Get(ctx context.Context) (*model.Workspace, error) {
	var (
		doc       []byte
		updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT document, updated_at FROM workspace_config WHERE id = 1`).
		Scan(&doc, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ws := &model.Workspace{}
	if err := json.Unmarshal(doc, ws); err != nil {
		return nil, fmt.Errorf("decode workspace document: %w", err)
	}
	ws.UpdatedAt = updatedAt
	return ws, nil
}

// Save replaces the stored workspace in one statement and returns the
// timestamp it was written with.
func (r *WorkspaceRepository) Save(ctx context.Context, ws *model.Workspace) (time.Time, error) {
	doc, err := json.Marshal(ws)
	if err != nil {
		return time.Time{}, fmt.Errorf("encode workspace document: %w", err)
	}

	var updatedAt time.Time
	err = r.pool.QueryRow(ctx,
		`INSERT INTO workspace_config (id, document, updated_at) VALUES (1, $1, NOW())
		 ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
		 RETURNING updated_at`,
		doc).Scan(&updatedAt)
	return updatedAt, err
}
