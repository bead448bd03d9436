package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
	"github.com/wawa-academy/erp-server/internal/validator"
)

var (
	ErrInvalidFormat = errors.New("invalid configuration format")
	ErrUnconfigured  = errors.New("workspace not configured")
)

// FormatError lists every field of an uploaded document that failed
// validation. It matches ErrInvalidFormat.
type FormatError struct {
	Fields map[string]string
}

func (e *FormatError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrInvalidFormat, strings.Join(names, ", "))
}

func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// WorkspaceStore persists the workspace document.
type WorkspaceStore interface {
	Get(ctx context.Context) (*model.Workspace, error)
	Save(ctx context.Context, ws *model.Workspace) (time.Time, error)
}

// ClientFactory builds a Notion client for a validated workspace.
type ClientFactory func(ws *model.Workspace) (*notion.Client, error)

// ReadyFunc is called after a workspace becomes current, either restored at
// boot or freshly uploaded.
type ReadyFunc func(ws *model.Workspace, client *notion.Client)

// WorkspaceService owns the configuration bootstrap: it validates uploaded
// documents, persists them and hands the resulting Notion client to the rest
// of the app.
type WorkspaceService struct {
	store     WorkspaceStore
	newClient ClientFactory
	log       zerolog.Logger

	// loadMu orders persist-then-activate so the stored and the current
	// workspace never diverge.
	loadMu sync.Mutex

	mu      sync.RWMutex
	current *model.Workspace
	client  *notion.Client
	onReady []ReadyFunc
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(store WorkspaceStore, newClient ClientFactory, log zerolog.Logger) *WorkspaceService {
	return &WorkspaceService{
		store:     store,
		newClient: newClient,
		log:       log.With().Str("component", "workspace").Logger(),
	}
}

// OnReady registers fn to run whenever a workspace becomes current.
func (s *WorkspaceService) OnReady(fn ReadyFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReady = append(s.onReady, fn)
}

// Restore loads the persisted workspace at boot. It returns nil without error
// when the installation has never been configured.
func (s *WorkspaceService) Restore(ctx context.Context) (*model.Workspace, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	ws, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	if ws == nil {
		s.log.Info().Msg("No workspace stored, waiting for upload")
		return nil, nil
	}

	client, err := s.newClient(ws)
	if err != nil {
		return nil, fmt.Errorf("restore workspace: %w", err)
	}
	s.activate(ws, client)

	s.log.Info().
		Str("academy", ws.AcademyName).
		Time("updated_at", ws.UpdatedAt).
		Msg("Workspace restored")
	return ws, nil
}

// LoadConfig validates an uploaded configuration document and, when every
// field is valid, persists it and makes it current. Nothing is persisted on
// failure and the previous workspace stays in effect.
func (s *WorkspaceService) LoadConfig(ctx context.Context, contents []byte) (*model.Workspace, error) {
	ws, err := ParseWorkspace(contents)
	if err != nil {
		return nil, err
	}
	client, err := s.newClient(ws)
	if err != nil {
		return nil, fmt.Errorf("build notion client: %w", err)
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	updatedAt, err := s.store.Save(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("persist workspace: %w", err)
	}
	ws.UpdatedAt = updatedAt
	s.activate(ws, client)

	s.log.Info().
		Str("academy", ws.AcademyName).
		Int("datasets", len(ws.Databases)).
		Msg("Workspace configured")
	return ws, nil
}

func (s *WorkspaceService) activate(ws *model.Workspace, client *notion.Client) {
	s.mu.Lock()
	s.current = ws
	s.client = client
	hooks := append([]ReadyFunc(nil), s.onReady...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(ws, client)
	}
}

// Configured reports whether a workspace is in effect.
func (s *WorkspaceService) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Current returns the workspace in effect.
func (s *WorkspaceService) Current() (*model.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrUnconfigured
	}
	return s.current, nil
}

// Client returns the Notion client of the workspace in effect.
func (s *WorkspaceService) Client() (*notion.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, ErrUnconfigured
	}
	return s.client, nil
}

// ParseWorkspace decodes and validates an uploaded document. Every invalid
// field is reported in one *FormatError.
func ParseWorkspace(contents []byte) (*model.Workspace, error) {
	var doc model.WorkspaceDocument
	if err := json.Unmarshal(contents, &doc); err != nil {
		return nil, &FormatError{Fields: map[string]string{"document": "document must be a JSON object"}}
	}
	doc.Normalize()
	if fields := validator.Struct(&doc); fields != nil {
		return nil, &FormatError{Fields: fields}
	}
	return doc.Workspace(), nil
}

// DatasetCheck is the outcome of probing one configured database.
type DatasetCheck struct {
	Dataset model.Dataset `json:"dataset"`
	OK      bool          `json:"ok"`
	Title   string        `json:"title,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// VerifyReport is the result of a connection test.
type VerifyReport struct {
	OK       bool           `json:"ok"`
	Bot      string         `json:"bot,omitempty"`
	Datasets []DatasetCheck `json:"datasets"`
}

// Verify validates a document and probes Notion with it without persisting
// anything. A rejected key fails the whole check with notion.ErrUnauthorized;
// an unreachable database is reported per dataset.
func (s *WorkspaceService) Verify(ctx context.Context, contents []byte) (*VerifyReport, error) {
	ws, err := ParseWorkspace(contents)
	if err != nil {
		return nil, err
	}
	client, err := s.newClient(ws)
	if err != nil {
		return nil, fmt.Errorf("build notion client: %w", err)
	}

	me, err := client.Me(ctx)
	if err != nil {
		return nil, err
	}

	datasets := make([]model.Dataset, 0, len(ws.Databases))
	for ds := range ws.Databases {
		datasets = append(datasets, ds)
	}
	sort.Slice(datasets, func(i, j int) bool { return datasets[i] < datasets[j] })

	checks := make([]DatasetCheck, len(datasets))
	g, gctx := errgroup.WithContext(ctx)
	for i, ds := range datasets {
		g.Go(func() error {
			check := DatasetCheck{Dataset: ds}
			db, err := client.Database(gctx, ds)
			switch {
			case err == nil:
				check.OK = true
				check.Title = db.Name()
			case isRemoteFailure(err):
				return err
			default:
				check.Error = err.Error()
			}
			checks[i] = check
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &VerifyReport{OK: true, Bot: me.Name, Datasets: checks}
	for _, c := range checks {
		if !c.OK {
			report.OK = false
		}
	}
	return report, nil
}
