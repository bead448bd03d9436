package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
)

// LoginStateReader is the part of the session controller the boot screen needs.
type LoginStateReader interface {
	State() (model.LoginState, string)
}

// SetupHandler serves the boot decision and the configuration upload.
type SetupHandler struct {
	workspace *service.WorkspaceService
	state     LoginStateReader
	maxBytes  int64
	log       zerolog.Logger
}

// NewSetupHandler creates a new SetupHandler. Uploads larger than maxBytes are
// rejected.
func NewSetupHandler(workspace *service.WorkspaceService, state LoginStateReader, maxBytes int64, log zerolog.Logger) *SetupHandler {
	return &SetupHandler{
		workspace: workspace,
		state:     state,
		maxBytes:  maxBytes,
		log:       log.With().Str("component", "setup_handler").Logger(),
	}
}

// Bootstrap godoc
// GET /api/v1/bootstrap
// Tells the renderer whether to show the upload screen or the login screen.
func (h *SetupHandler) Bootstrap(c *gin.Context) {
	state, lastErr := h.state.State()
	status := model.BootstrapStatus{State: state, LastError: lastErr}
	if ws, err := h.workspace.Current(); err == nil {
		sum := ws.Summary()
		status.Configured = true
		status.Workspace = &sum
	}
	response.Success(c, http.StatusOK, status)
}

// UploadConfig godoc
// POST /api/v1/setup/config
// Accepts the configuration file as multipart field "file" or as an
// application/json body. Open until a workspace is in effect; replacing one
// needs an admin session. With ?verify=true the document is tested against Notion first and
// nothing is stored if the test fails.
func (h *SetupHandler) UploadConfig(c *gin.Context) {
	contents, ok := h.readDocument(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if c.Query("verify") == "true" {
		report, err := h.workspace.Verify(ctx, contents)
		if err != nil {
			fail(c, h.log, err)
			return
		}
		if !report.OK {
			response.FailWithData(c, http.StatusUnprocessableEntity, response.ErrNotionRejected, gin.H{"verify": report})
			return
		}
	}

	ws, err := h.workspace.LoadConfig(ctx, contents)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workspace": ws.Summary()})
}

// Verify godoc
// POST /api/v1/setup/verify
// Runs the connection test on a document without storing it.
func (h *SetupHandler) Verify(c *gin.Context) {
	contents, ok := h.readDocument(c)
	if !ok {
		return
	}
	report, err := h.workspace.Verify(c.Request.Context(), contents)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

func (h *SetupHandler) readDocument(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+4096)

	var r io.Reader = c.Request.Body
	switch contentType := c.ContentType(); {
	case contentType == "application/json":
	case strings.HasPrefix(contentType, "multipart/"):
		fh, err := c.FormFile("file")
		if err != nil {
			if isTooLarge(err) {
				response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			} else {
				response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
			}
			return nil, false
		}
		if fh.Size > h.maxBytes {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return nil, false
		}
		f, err := fh.Open()
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
			return nil, false
		}
		defer f.Close()
		r = f
	default:
		response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedMediaType)
		return nil, false
	}

	contents, err := io.ReadAll(io.LimitReader(r, h.maxBytes+1))
	if err != nil {
		if isTooLarge(err) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		} else {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		}
		return nil, false
	}
	if int64(len(contents)) > h.maxBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return nil, false
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return nil, false
	}
	return contents, true
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
