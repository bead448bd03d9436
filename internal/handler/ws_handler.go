package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/middleware"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
	ws "github.com/wawa-academy/erp-server/internal/websocket"
)

// sessionRecheck is how often an open stream confirms its session is alive.
const sessionRecheck = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// InboxSubscriber opens a teacher's inbox channel.
type InboxSubscriber interface {
	Subscribe(ctx context.Context, teacherID string) *redis.PubSub
}

// WSHandler streams incoming direct messages.
type WSHandler struct {
	bus      InboxSubscriber
	messages *service.MessageService
	sessions middleware.SessionAuthorizer
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(bus InboxSubscriber, messages *service.MessageService, sessions middleware.SessionAuthorizer, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		bus:      bus,
		messages: messages,
		sessions: sessions,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// MessageStream godoc
// WS /ws/v1/messages/stream?token=...
// Pushes every message sent to the signed-in teacher while the stream is
// open. The stream ends when the session does.
func (h *WSHandler) MessageStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	session := middleware.GetSession(c)
	if claims == nil || session == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	teacherID := session.Teacher.ID
	wsLog := h.log.With().Str("teacher_id", teacherID).Logger()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.bus.Subscribe(ctx, teacherID)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe inbox")
		_ = ws.WriteError(conn, "message stream unavailable")
		return
	}

	if err := ws.WriteTyped(conn, ws.ReadyResponse{
		Event:  ws.EventReady,
		Unread: h.messages.UnreadCount(ctx, teacherID),
	}); err != nil {
		return
	}
	wsLog.Info().Msg("Message stream opened")

	pings := make(chan struct{}, 1)
	go h.readLoop(conn, wsLog, pings, cancel)

	recheck := time.NewTicker(sessionRecheck)
	defer recheck.Stop()
	inbox := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Message stream closed")
			return

		case msg, ok := <-inbox:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.MessageResponse{
				Event:   ws.EventMessage,
				Message: json.RawMessage(msg.Payload),
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Write message")
				return
			}

		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}

		case <-recheck.C:
			if _, err := h.sessions.Authorize(claims.ID); err != nil {
				_ = ws.WriteError(conn, "session ended")
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session ended"),
					time.Now().Add(time.Second))
				wsLog.Info().Msg("Message stream closed by logout")
				return
			}
		}
	}
}

// readLoop consumes client frames. It is the connection's only reader; all
// writes stay on the MessageStream goroutine.
func (h *WSHandler) readLoop(conn *websocket.Conn, log zerolog.Logger, pings chan<- struct{}, done context.CancelFunc) {
	defer done()
	for {
		var env ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		switch env.Action {
		case ws.ActionPing:
			select {
			case pings <- struct{}{}:
			default:
			}
		default:
			log.Debug().Str("action", string(env.Action)).Msg("Unknown action")
		}
	}
}
