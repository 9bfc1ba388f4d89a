package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eadcode/OnlineDatingApp/internal/telemetry"
	"github.com/eadcode/OnlineDatingApp/internal/ws"
)

// DebugHandler serves operator diagnostics. Only mounted when DEBUG_ROUTES is set.
type DebugHandler struct {
	emitter *telemetry.AuditEmitter
	hub     *ws.Hub
}

func NewDebugHandler(emitter *telemetry.AuditEmitter, hub *ws.Hub) *DebugHandler {
	return &DebugHandler{emitter: emitter, hub: hub}
}

// RegisterDebugRoutes mounts the diagnostics behind authMiddleware when enabled.
func RegisterDebugRoutes(router *gin.Engine, h *DebugHandler, enabled bool, authMiddleware gin.HandlerFunc) {
	if !enabled || h == nil {
		return
	}
	debug := router.Group("/debug", authMiddleware)
	debug.GET("/audit-test", h.AuditProbe)
	debug.GET("/chats/:id/listeners", h.ChatListeners)
}

// AuditProbe emits one audit event so the pipeline can be checked end to end.
func (h *DebugHandler) AuditProbe(c *gin.Context) {
	if h.emitter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
		return
	}
	h.emitter.Emit(c.Request.Context(), telemetry.EventDebugAuditProbe, "audit test", requestIDFromContext(c), currentUserID(c), nil)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ChatListeners reports how many websocket clients are subscribed to a chat.
func (h *DebugHandler) ChatListeners(c *gin.Context) {
	chatID, ok := paramID(c, "id")
	if !ok {
		return
	}
	listeners := 0
	if h.hub != nil {
		listeners = h.hub.RoomSize(chatID)
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": chatID, "listeners": listeners})
}
