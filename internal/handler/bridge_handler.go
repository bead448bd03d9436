package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/notion"
	"github.com/wawa-academy/erp-server/internal/service"
	"github.com/wawa-academy/erp-server/internal/validator"
)

// BridgeHandler forwards raw Notion calls for renderers that were written
// against the desktop shell's notionFetch bridge.
type BridgeHandler struct {
	notion service.NotionProvider
	log    zerolog.Logger
}

// NewBridgeHandler creates a new BridgeHandler.
func NewBridgeHandler(np service.NotionProvider, log zerolog.Logger) *BridgeHandler {
	return &BridgeHandler{notion: np, log: log.With().Str("component", "bridge_handler").Logger()}
}

type notionFetchRequest struct {
	Endpoint string          `json:"endpoint" binding:"required,max=512"`
	Method   string          `json:"method" binding:"omitempty,oneof=GET POST PATCH DELETE get post patch delete"`
	Body     json.RawMessage `json:"body"`
}

// bridgeResult is the shape the bridge has always answered with; it does not
// use the API envelope.
type bridgeResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// NotionFetch godoc
// POST /api/v1/bridge/notion-fetch
// Body: {"endpoint": "/databases/<id>/query", "method": "POST", "body": {...}}
func (h *BridgeHandler) NotionFetch(c *gin.Context) {
	var req notionFetchRequest
	if fields := validator.Bind(c, &req); fields != nil {
		c.JSON(http.StatusBadRequest, bridgeResult{Message: joinFields(fields)})
		return
	}
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	client, err := h.notion.Client()
	if err != nil {
		c.JSON(http.StatusConflict, bridgeResult{Message: err.Error()})
		return
	}

	data, err := client.Do(c.Request.Context(), method, req.Endpoint, req.Body)
	if err != nil {
		status := http.StatusBadGateway
		var apiErr *notion.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.Status
		} else if errors.Is(err, notion.ErrRemoteUnavailable) {
			status = http.StatusServiceUnavailable
		} else if !errors.Is(err, notion.ErrUnauthorized) {
			status = http.StatusBadRequest
		}
		h.log.Debug().Err(err).Str("endpoint", req.Endpoint).Msg("Bridge call failed")
		c.JSON(status, bridgeResult{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, bridgeResult{Success: true, Data: data})
}

func joinFields(fields map[string]string) string {
	msgs := make([]string, 0, len(fields))
	for _, m := range fields {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
