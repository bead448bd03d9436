package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wawa-academy/erp-server/internal/middleware"
	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
	"github.com/wawa-academy/erp-server/internal/validator"
)

// MessageHandler serves teacher-to-teacher direct messages.
type MessageHandler struct {
	messages *service.MessageService
	log      zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *service.MessageService, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log.With().Str("component", "message_handler").Logger()}
}

// Recent godoc
// GET /api/v1/messages
// Returns the latest messages sent or received by the signed-in teacher.
func (h *MessageHandler) Recent(c *gin.Context) {
	session := middleware.GetSession(c)
	msgs, err := h.messages.Recent(c.Request.Context(), session.Teacher.ID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

// UnreadCount godoc
// GET /api/v1/messages/unread-count
// Feeds the header badge; reports 0 when Notion cannot be reached.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	session := middleware.GetSession(c)
	response.Success(c, http.StatusOK, gin.H{"unread": h.messages.UnreadCount(c.Request.Context(), session.Teacher.ID)})
}

// Conversation godoc
// GET /api/v1/messages/:partner_id
func (h *MessageHandler) Conversation(c *gin.Context) {
	session := middleware.GetSession(c)
	msgs, err := h.messages.Conversation(c.Request.Context(), session.Teacher.ID, c.Param("partner_id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

// Send godoc
// POST /api/v1/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req model.SendMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session := middleware.GetSession(c)
	msg, err := h.messages.Send(c.Request.Context(), session.Teacher.ID, req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

// MarkRead godoc
// POST /api/v1/messages/read
// Marks every unread message from partner_id as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	var req model.MarkReadRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session := middleware.GetSession(c)
	n, err := h.messages.MarkRead(c.Request.Context(), session.Teacher.ID, req.PartnerID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": n})
}
