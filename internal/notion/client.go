package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wawa-academy/erp-server/internal/model"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"

	maxResponseBytes = 16 << 20
)

// Client talks to the Notion REST API on behalf of one workspace.
type Client struct {
	http      *http.Client
	baseURL   string
	version   string
	apiKey    string
	databases map[model.Dataset]string
	metrics   *Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (tests, a local proxy).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithVersion sets the Notion-Version header.
func WithVersion(v string) Option {
	return func(c *Client) { c.version = v }
}

// WithTimeout sets the timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithMetrics records every call on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New builds a client for ws. The workspace must carry an API key and a
// database id for every required dataset.
func New(ws *model.Workspace, opts ...Option) (*Client, error) {
	if ws == nil || strings.TrimSpace(ws.APIKey) == "" {
		return nil, fmt.Errorf("%w: api key missing", ErrInvalidWorkspace)
	}
	if missing := ws.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing database ids %v", ErrInvalidWorkspace, missing)
	}

	dbs := make(map[model.Dataset]string, len(ws.Databases))
	for ds, id := range ws.Databases {
		dbs[ds] = id
	}

	c := &Client{
		http:      &http.Client{Timeout: 15 * time.Second},
		baseURL:   DefaultBaseURL,
		version:   DefaultVersion,
		apiKey:    ws.APIKey,
		databases: dbs,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DatabaseID resolves a dataset name to its Notion database id.
func (c *Client) DatabaseID(ds model.Dataset) (string, error) {
	id := c.databases[ds]
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownDataset, ds)
	}
	return id, nil
}

// Configured reports whether ds has a database id.
func (c *Client) Configured(ds model.Dataset) bool {
	return c.databases[ds] != ""
}

// Query returns every page of ds matching q, following pagination cursors.
// A nil q queries the whole database.
func (c *Client) Query(ctx context.Context, ds model.Dataset, q *QueryRequest) ([]Page, error) {
	req := QueryRequest{}
	if q != nil {
		req = *q
	}

	var pages []Page
	for {
		res, err := c.QueryPage(ctx, ds, &req)
		if err != nil {
			return nil, err
		}
		pages = append(pages, res.Results...)
		if !res.HasMore || res.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = res.NextCursor
	}
}

// QueryPage returns a single page of results.
func (c *Client) QueryPage(ctx context.Context, ds model.Dataset, q *QueryRequest) (*QueryResult, error) {
	id, err := c.DatabaseID(ds)
	if err != nil {
		return nil, err
	}
	if q == nil {
		q = &QueryRequest{}
	}

	var res QueryResult
	if err := c.do(ctx, "query", http.MethodPost, "/databases/"+id+"/query", q, &res); err != nil {
		return nil, fmt.Errorf("query %s: %w", ds, err)
	}
	return &res, nil
}

// First returns the first page matching q, or nil when there is none.
func (c *Client) First(ctx context.Context, ds model.Dataset, q *QueryRequest) (*Page, error) {
	req := QueryRequest{PageSize: 1}
	if q != nil {
		req = *q
		req.PageSize = 1
	}
	res, err := c.QueryPage(ctx, ds, &req)
	if err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, nil
	}
	return &res.Results[0], nil
}

// Retrieve fetches a single page by id.
func (c *Client) Retrieve(ctx context.Context, pageID string) (*Page, error) {
	var p Page
	if err := c.do(ctx, "retrieve", http.MethodGet, "/pages/"+pageID, nil, &p); err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}
	return &p, nil
}

// CreatePage adds a row to ds.
func (c *Client) CreatePage(ctx context.Context, ds model.Dataset, props Properties) (*Page, error) {
	id, err := c.DatabaseID(ds)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"parent":     map[string]string{"database_id": id},
		"properties": props,
	}

	var p Page
	if err := c.do(ctx, "create", http.MethodPost, "/pages", body, &p); err != nil {
		return nil, fmt.Errorf("create page in %s: %w", ds, err)
	}
	return &p, nil
}

// UpdatePage patches properties of an existing row.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) (*Page, error) {
	var p Page
	body := map[string]any{"properties": props}
	if err := c.do(ctx, "update", http.MethodPatch, "/pages/"+pageID, body, &p); err != nil {
		return nil, fmt.Errorf("update page %s: %w", pageID, err)
	}
	return &p, nil
}

// ArchivePage moves a row to the trash, which is how rows are deleted.
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	body := map[string]any{"archived": true}
	if err := c.do(ctx, "archive", http.MethodPatch, "/pages/"+pageID, body, nil); err != nil {
		return fmt.Errorf("archive page %s: %w", pageID, err)
	}
	return nil
}

// Me returns the bot user behind the API key. It is the cheapest call that
// proves the key is accepted.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, "me", http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Database fetches the schema of the database behind ds.
func (c *Client) Database(ctx context.Context, ds model.Dataset) (*Database, error) {
	id, err := c.DatabaseID(ds)
	if err != nil {
		return nil, err
	}
	var db Database
	if err := c.do(ctx, "database", http.MethodGet, "/databases/"+id, nil, &db); err != nil {
		return nil, fmt.Errorf("database %s: %w", ds, err)
	}
	return &db, nil
}

// Do forwards a raw call. endpoint is relative to the API root, e.g.
// "/databases/<id>/query".
func (c *Client) Do(ctx context.Context, method, endpoint string, body json.RawMessage) (json.RawMessage, error) {
	if !strings.HasPrefix(endpoint, "/") || strings.Contains(endpoint, "..") || strings.Contains(endpoint, "://") {
		return nil, fmt.Errorf("invalid endpoint %q", endpoint)
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete:
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	var in any
	if len(body) > 0 {
		in = body
	}
	var out json.RawMessage
	if err := c.do(ctx, "raw", method, endpoint, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(op, err, time.Since(start)) }()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrRemoteUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		// Error bodies may be empty or HTML from a proxy; the status is enough then.
		_ = json.Unmarshal(raw, apiErr)
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
