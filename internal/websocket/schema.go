package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventReady   Event = "ready"
	EventMessage Event = "message"
	EventPong    Event = "pong"
)

// ReadyResponse is sent once the stream is subscribed.
type ReadyResponse struct {
	Event  Event `json:"event"`
	Unread int   `json:"unread"`
}

// MessageResponse carries a newly received direct message.
type MessageResponse struct {
	Event   Event           `json:"event"`
	Message json.RawMessage `json:"message"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
