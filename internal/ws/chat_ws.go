package ws

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"github.com/eadcode/OnlineDatingApp/internal/logging"
	"github.com/eadcode/OnlineDatingApp/internal/observability"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
	"github.com/eadcode/OnlineDatingApp/internal/session"
)

// ChatWebSocketHandler handles chat websocket connections.
type ChatWebSocketHandler struct {
	hub      *Hub
	chatRepo repositories.ChatRepository
	sessions *session.Manager
}

// NewChatWebSocketHandler constructs a ChatWebSocketHandler.
func NewChatWebSocketHandler(hub *Hub, chatRepo repositories.ChatRepository, sessions *session.Manager) *ChatWebSocketHandler {
	return &ChatWebSocketHandler{hub: hub, chatRepo: chatRepo, sessions: sessions}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers client.
func (h *ChatWebSocketHandler) Handle(c *gin.Context) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	ctx, span := otel.Tracer("dating-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := h.sessions.Parse(tokenFromRequest(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	member, err := h.chatRepo.IsParticipant(c.Request.Context(), chatID, userID)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for chat"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	traceID := span.SpanContext().TraceID().String()
	meta := observability.ClientMetaFromRequest(c.Request)
	requestID := c.GetString(logging.RequestIDKey)
	if requestID == "" {
		requestID = meta.RequestID
	}
	info := ConnInfo{
		ConnID:      uuid.NewString(),
		UserID:      userID,
		DeviceID:    meta.DeviceID,
		IP:          meta.IP,
		UserAgent:   meta.UserAgent,
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddChatClient(chatID, conn, info)

	headers := observability.BuildHeaders(requestID, traceID)
	observability.IncWSActive(chatKind)
	observability.IncWSEvent(chatKind, "ws_connect")
	_ = observability.PublishEvent(ctx, wsRoutingKey, wsEnvelope("ws_connect", chatID, info, 0, ""), headers)

	// The handshake span ends with this request; the read loop outlives it.
	loopCtx := context.WithoutCancel(ctx)
	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveChatClient(chatID, conn)
			observability.DecWSActive(chatKind)
			observability.IncWSEvent(chatKind, "ws_disconnect")
			_ = observability.PublishEvent(loopCtx, wsRoutingKey, wsEnvelope("ws_disconnect", chatID, info, time.Since(info.ConnectedAt), closeReason), headers)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent(chatKind, "ws_error")
					_ = observability.PublishEvent(loopCtx, wsRoutingKey, wsEnvelope("ws_error", chatID, info, time.Since(info.ConnectedAt), closeReason), headers)
				}
				return
			}
		}
	}()
}

// tokenFromRequest reads the session from the Authorization header, the token query
// parameter (browsers cannot set headers on websocket handshakes) or the session cookie.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		return cookie
	}
	return ""
}
