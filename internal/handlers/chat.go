package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/observability"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
	"github.com/eadcode/OnlineDatingApp/internal/telemetry"
	"github.com/eadcode/OnlineDatingApp/internal/ws"
)

// ChatHandler manages private chat endpoints.
type ChatHandler struct {
	chatRepo    repositories.ChatRepository
	hub         *ws.Hub
	emitter     *telemetry.AuditEmitter
	messageCost int
}

// NewChatHandler builds a ChatHandler. messageCost is debited per message sent.
func NewChatHandler(chatRepo repositories.ChatRepository, hub *ws.Hub, emitter *telemetry.AuditEmitter, messageCost int) *ChatHandler {
	return &ChatHandler{
		chatRepo:    chatRepo,
		hub:         hub,
		emitter:     emitter,
		messageCost: messageCost,
	}
}

// StartChat opens (or reopens) the conversation with another member and returns the thread.
func (h *ChatHandler) StartChat(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	chat, created, err := h.chatRepo.StartChat(c.Request.Context(), userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	thread, err := h.chatRepo.GetThread(c.Request.Context(), chat.ID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"thread": thread, "created": created})
}

// GetChat returns a thread to one of its participants and marks it read for them.
func (h *ChatHandler) GetChat(c *gin.Context) {
	chatID, ok := paramID(c, "id")
	if !ok {
		return
	}

	thread, err := h.chatRepo.GetThread(c.Request.Context(), chatID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thread": thread})
}

// PostChatMessage appends a message, debits the author and broadcasts the entry.
// The wallet gate runs before this handler; the debit itself is re-checked inside the
// repository transaction.
func (h *ChatHandler) PostChatMessage(c *gin.Context) {
	chatID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Message string `form:"message" json:"message"`
	}
	if !bindBody(c, &req) {
		return
	}
	body := strings.TrimSpace(req.Message)
	if body == "" {
		respondError(c, apperrors.Validation("message is required", map[string]string{"message": "is required"}))
		return
	}

	userID := currentUserID(c)
	msg, balance, err := h.chatRepo.PostMessage(c.Request.Context(), chatID, userID, body, h.messageCost)
	if err != nil {
		respondError(c, err)
		return
	}
	observability.IncChatMessage()
	h.emitter.Emit(c.Request.Context(), telemetry.EventMessageSent, "chat message sent", requestIDFromContext(c), userID,
		map[string]any{"chat_id": chatID, "message_id": msg.ID, "balance": balance})

	if h.hub != nil {
		h.hub.BroadcastChatMessage(chatID, msg)
	}

	thread, err := h.chatRepo.GetThread(c.Request.Context(), chatID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg, "thread": thread, "wallet": balance})
}

// ListChats returns received and sent conversations, most recently active first.
func (h *ChatHandler) ListChats(c *gin.Context) {
	received, sent, err := h.chatRepo.ListChats(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": received, "sent": sent})
}

// DeleteChat removes a conversation the user participates in.
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	chatID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.chatRepo.DeleteChat(c.Request.Context(), chatID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
