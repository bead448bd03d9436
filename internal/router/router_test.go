package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wawa-academy/erp-server/internal/config"
	"github.com/wawa-academy/erp-server/internal/handler"
	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
	"github.com/wawa-academy/erp-server/internal/service"
	"github.com/wawa-academy/erp-server/internal/validator"
)

const document = `{
	"notionApiKey": "secret_abcd1234",
	"notionTeachersDb": "db-teachers",
	"notionStudentsDb": "db-students",
	"notionScoresDb": "db-scores",
	"notionExamScheduleDb": "db-exam-schedule",
	"notionEnrollmentDb": "db-enrollment",
	"notionMakeupDb": "db-makeup",
	"notionDmMessagesDb": "db-dm",
	"academyName": "와와학습코칭센터"
}`

type memStore struct {
	mu    sync.Mutex
	ws    *model.Workspace
	saves int
}

func (s *memStore) Get(ctx context.Context) (*model.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ws == nil {
		return nil, nil
	}
	cp := *s.ws
	return &cp, nil
}

func (s *memStore) Save(ctx context.Context, ws *model.Workspace) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ws
	s.ws = &cp
	s.saves++
	return time.Now().UTC(), nil
}

type memPrefs struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func (p *memPrefs) Get(ctx context.Context, id string) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := map[string]string{}
	for k, v := range p.data[id] {
		out[k] = v
	}
	return out, nil
}

func (p *memPrefs) Set(ctx context.Context, id string, values map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data[id] == nil {
		p.data[id] = map[string]string{}
	}
	for k, v := range values {
		p.data[id][k] = v
	}
	return nil
}

func (p *memPrefs) Clear(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, id)
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, channel string, payload []byte) error { return nil }

func title(s string) map[string]any {
	return map[string]any{"type": "title", "title": []any{map[string]any{"plain_text": s}}}
}

// fakeNotion answers the calls the login flow makes.
func fakeNotion(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /databases/db-teachers/query", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"results": []any{
				map[string]any{"id": "t-seo", "properties": map[string]any{
					"선생님":     title("서재용"),
					"과목":      map[string]any{"type": "multi_select", "multi_select": []any{map[string]any{"name": "수학"}}},
					"PIN":     map[string]any{"type": "number", "number": 1141},
					"isAdmin": map[string]any{"type": "select", "select": map[string]any{"name": "False"}},
				}},
			},
			"has_more": false,
		})
	})
	mux.HandleFunc("POST /databases/db-students/query", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"results": []any{}, "has_more": false})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "bot", "type": "bot", "name": "WAWA"})
	})
	mux.HandleFunc("GET /databases/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "db-makeup" {
			writeJSON(w, http.StatusNotFound, map[string]any{"code": "object_not_found", "message": "missing"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": r.PathValue("id")})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testApp struct {
	router   *gin.Engine
	store    *memStore
	sessions *service.SessionController
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	log := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := fakeNotion(t)
	cfg := &config.Config{GinMode: gin.TestMode, JWTSecret: "test", JWTExpiry: time.Hour, MaxConfigBytes: 4096}
	store := &memStore{}
	prefs := &memPrefs{data: map[string]map[string]string{}}

	workspace := service.NewWorkspaceService(store, func(ws *model.Workspace) (*notion.Client, error) {
		return notion.New(ws, notion.WithBaseURL(srv.URL), notion.WithTimeout(2*time.Second))
	}, log)
	sessions := service.NewSessionController(ctx, prefs, cfg.JWTExpiry, log)
	t.Cleanup(sessions.Close)
	workspace.OnReady(func(ws *model.Workspace, client *notion.Client) {
		sessions.Bootstrap(service.NewNotionTeacherDirectory(client))
	})

	authService := service.NewAuthService(cfg)
	students := service.NewStudentService(workspace)
	scores := service.NewScoreService(workspace)
	messages := service.NewMessageService(workspace, nopPublisher{}, log)

	handlers := &Handlers{
		Setup:      handler.NewSetupHandler(workspace, sessions, cfg.MaxConfigBytes, log),
		Auth:       handler.NewAuthHandler(authService, sessions, log),
		Preference: handler.NewPreferenceHandler(service.NewPreferenceService(prefs), log),
		Student:    handler.NewStudentHandler(students, log),
		Score:      handler.NewScoreHandler(scores, log),
		Report:     handler.NewReportHandler(service.NewReportService(students, scores, log), log),
		Schedule:   handler.NewScheduleHandler(service.NewScheduleService(workspace, log), log),
		Makeup:     handler.NewMakeupHandler(service.NewMakeupService(workspace), log),
		Message:    handler.NewMessageHandler(messages, log),
		WS:         handler.NewWSHandler(nil, messages, sessions, log, nil),
		Bridge:     handler.NewBridgeHandler(workspace, log),
	}

	return &testApp{
		router:   SetupRouter(ctx, authService, sessions, workspace, handlers, prometheus.NewRegistry(), cfg),
		store:    store,
		sessions: sessions,
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

func (a *testApp) do(t *testing.T, method, path, token string, body []byte, contentType string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *testApp) upload(t *testing.T) {
	t.Helper()
	code, env := a.do(t, http.MethodPost, "/api/v1/setup/config", "", []byte(document), "application/json")
	require.Equal(t, http.StatusOK, code, string(env.Data))
}

func (a *testApp) login(t *testing.T, pin string) (int, envelope) {
	t.Helper()
	return a.loginAs(t, "t-seo", pin)
}

func (a *testApp) loginAs(t *testing.T, teacherID, pin string) (int, envelope) {
	t.Helper()
	roster, err := a.sessions.Roster()
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = roster.Wait(ctx)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"teacher_id": teacherID, "pin": pin})
	return a.do(t, http.MethodPost, "/api/v1/auth/login", "", body, "application/json")
}

func tokenOf(t *testing.T, env envelope) string {
	t.Helper()
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func TestBootstrapBeforeUpload(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(t, http.MethodGet, "/api/v1/bootstrap", "", nil, "")
	require.Equal(t, http.StatusOK, code)
	var status model.BootstrapStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.False(t, status.Configured)
	assert.Equal(t, model.StateUnconfigured, status.State)

	code, env = app.do(t, http.MethodGet, "/api/v1/auth/teachers", "", nil, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "NOT_CONFIGURED", env.Error.Code)
}

func TestUploadRejectsMissingField(t *testing.T) {
	app := newTestApp(t)
	doc := strings.Replace(document, `"notionScoresDb": "db-scores",`, "", 1)

	code, env := app.do(t, http.MethodPost, "/api/v1/setup/config", "", []byte(doc), "application/json")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_CONFIG_FORMAT", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "notionScoresDb")
	assert.Equal(t, 0, app.store.saves)
}

func TestUploadMultipartAndSizeLimit(t *testing.T) {
	app := newTestApp(t)

	big := []byte(`{"academyName": "` + strings.Repeat("a", 5000) + `"}`)
	code, env := app.do(t, http.MethodPost, "/api/v1/setup/config", "", big, "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "FILE_TOO_LARGE", env.Error.Code)

	code, env = app.do(t, http.MethodPost, "/api/v1/setup/config", "", []byte(document), "text/plain")
	assert.Equal(t, http.StatusUnsupportedMediaType, code)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", env.Error.Code)
	assert.Equal(t, 0, app.store.saves)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "wawa-config.json")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(document))
	require.NoError(t, mw.Close())

	code, env = app.do(t, http.MethodPost, "/api/v1/setup/config", "", buf.Bytes(), mw.FormDataContentType())
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "****1234")
	assert.NotContains(t, string(env.Data), "secret_abcd1234")
	assert.Equal(t, 1, app.store.saves)
}

func TestReconfigureNeedsAdmin(t *testing.T) {
	app := newTestApp(t)
	app.upload(t)

	code, env := app.login(t, "1141")
	require.Equal(t, http.StatusOK, code)
	teacherToken := tokenOf(t, env)

	// Without a session, whatever the body type.
	for _, contentType := range []string{"application/json", "text/plain"} {
		code, env = app.do(t, http.MethodPost, "/api/v1/setup/config", "", []byte(document), contentType)
		assert.Equal(t, http.StatusUnauthorized, code, contentType)
		assert.Equal(t, "TOKEN_REQUIRED", env.Error.Code, contentType)
	}
	code, _ = app.do(t, http.MethodPost, "/api/v1/setup/verify", "", []byte(document), "application/json")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = app.do(t, http.MethodPost, "/api/v1/setup/config", teacherToken, []byte(document), "application/json")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "ADMIN_ACCESS_ONLY", env.Error.Code)

	assert.Equal(t, 1, app.store.saves)
	state, _ := app.sessions.State()
	assert.Equal(t, model.StateAuthenticated, state)
	code, _ = app.do(t, http.MethodGet, "/api/v1/auth/me", teacherToken, nil, "")
	assert.Equal(t, http.StatusOK, code)

	code, env = app.loginAs(t, "t-ji", "8520")
	require.Equal(t, http.StatusOK, code)
	adminToken := tokenOf(t, env)

	code, _ = app.do(t, http.MethodPost, "/api/v1/setup/config", adminToken, []byte(document), "application/json")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, app.store.saves)

	// Reconfiguration ends the admin's session too.
	code, _ = app.do(t, http.MethodGet, "/api/v1/auth/me", adminToken, nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUploadWithVerify(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(t, http.MethodPost, "/api/v1/setup/config?verify=true", "", []byte(document), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "NOTION_REJECTED", env.Error.Code)
	assert.Contains(t, string(env.Data), "makeup")
	assert.Equal(t, 0, app.store.saves)

	code, env = app.do(t, http.MethodPost, "/api/v1/setup/verify", "", []byte(document), "application/json")
	require.Equal(t, http.StatusOK, code)
	var report service.VerifyReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.False(t, report.OK)
	assert.Equal(t, "WAWA", report.Bot)
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)
	app.upload(t)

	code, env := app.do(t, http.MethodGet, "/api/v1/auth/teachers?wait=true", "", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ready","teachers":[{"id":"t-seo","name":"서재용","subjects":["수학"]},{"id":"t-ji","name":"지혜영","subjects":[]}]}`, string(env.Data))

	code, env = app.login(t, "0000")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "PIN_MISMATCH", env.Error.Code)

	code, env = app.login(t, "1141")
	require.Equal(t, http.StatusOK, code)
	lost := tokenOf(t, env)

	// The client lost its token; logging in again replaces the session.
	code, env = app.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, env = app.login(t, "1141")
	require.Equal(t, http.StatusOK, code)
	token := tokenOf(t, env)

	code, env = app.do(t, http.MethodGet, "/api/v1/auth/me", lost, nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "SESSION_INVALIDATED", env.Error.Code)

	code, env = app.do(t, http.MethodGet, "/api/v1/auth/me", token, nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "서재용")

	code, env = app.do(t, http.MethodGet, "/api/v1/navigation?active=/report/input", token, nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "/report/settings")
	assert.Contains(t, string(env.Data), `"active":"/report/input"`)

	code, _ = app.do(t, http.MethodPut, "/api/v1/preferences", token, []byte(`{"preferences":{"year_month":"2026-10"}}`), "application/json")
	require.Equal(t, http.StatusOK, code)

	code, _ = app.do(t, http.MethodGet, "/api/v1/students", token, nil, "")
	assert.Equal(t, http.StatusOK, code)

	code, env = app.do(t, http.MethodGet, "/api/v1/scores", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error.Fields, "year_month")

	code, _ = app.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil, "")
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(t, http.MethodGet, "/api/v1/auth/me", token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "SESSION_INVALIDATED", env.Error.Code)

	// The workspace survives logout.
	code, env = app.do(t, http.MethodGet, "/api/v1/bootstrap", "", nil, "")
	require.Equal(t, http.StatusOK, code)
	var status model.BootstrapStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Configured)
	assert.Equal(t, model.StateAwaitingLogin, status.State)
	assert.Equal(t, 1, app.store.saves)
}

func TestLoginValidation(t *testing.T) {
	app := newTestApp(t)
	app.upload(t)

	code, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", []byte(`{"teacher_id":"t-seo"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "pin")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/api/v1/navigation", "/api/v1/students", "/api/v1/messages", "/api/v1/preferences"} {
		code, env := app.do(t, http.MethodGet, path, "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.Equal(t, "TOKEN_REQUIRED", env.Error.Code, path)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	code, env := app.do(t, http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestBridgePassthrough(t *testing.T) {
	app := newTestApp(t)
	app.upload(t)
	_, env := app.login(t, "1141")
	token := tokenOf(t, env)

	call := func(body string) (int, map[string]any) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bridge/notion-fetch", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return w.Code, out
	}

	code, out := call(`{"endpoint":"/users/me","method":"GET"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "WAWA", out["data"].(map[string]any)["name"])

	code, out = call(`{"endpoint":"https://example.com/users/me"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, out["success"])
}
