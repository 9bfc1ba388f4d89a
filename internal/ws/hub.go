package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/observability"
)

const (
	chatKind     = "chat"
	writeTimeout = 10 * time.Second
)

// Hub maintains active websocket rooms, one per chat.
type Hub struct {
	chatRooms    map[int]map[*websocket.Conn]bool
	chatConnInfo map[int]map[*websocket.Conn]ConnInfo
	// writeLocks serializes writers per connection; gorilla allows one at a time.
	writeLocks map[*websocket.Conn]*sync.Mutex
	mu         sync.RWMutex
}

type roomMember struct {
	conn    *websocket.Conn
	writeMu *sync.Mutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		chatRooms:    make(map[int]map[*websocket.Conn]bool),
		chatConnInfo: make(map[int]map[*websocket.Conn]ConnInfo),
		writeLocks:   make(map[*websocket.Conn]*sync.Mutex),
	}
}

// AddChatClient registers a websocket connection to a chat room.
func (h *Hub) AddChatClient(chatID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.chatRooms[chatID]; !ok {
		h.chatRooms[chatID] = make(map[*websocket.Conn]bool)
	}
	h.chatRooms[chatID][conn] = true
	if _, ok := h.chatConnInfo[chatID]; !ok {
		h.chatConnInfo[chatID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.chatConnInfo[chatID][conn] = info
	if _, ok := h.writeLocks[conn]; !ok {
		h.writeLocks[conn] = &sync.Mutex{}
	}
}

// RemoveChatClient removes a chat websocket connection.
func (h *Hub) RemoveChatClient(chatID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.chatRooms[chatID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.chatRooms, chatID)
		}
	}
	if infos, ok := h.chatConnInfo[chatID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.chatConnInfo, chatID)
		}
	}
	delete(h.writeLocks, conn)
}

// RoomSize reports how many connections listen on a chat.
func (h *Hub) RoomSize(chatID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.chatRooms[chatID])
}

// BroadcastChatMessage sends message to all clients in a chat. It is safe to
// call from many goroutines at once.
func (h *Hub) BroadcastChatMessage(chatID int, msg models.Message) {
	h.mu.RLock()
	members := make([]roomMember, 0, len(h.chatRooms[chatID]))
	for conn := range h.chatRooms[chatID] {
		members = append(members, roomMember{conn: conn, writeMu: h.writeLocks[conn]})
	}
	h.mu.RUnlock()

	event := models.ChatEvent{Type: "message", Message: &msg}
	payload, _ := json.Marshal(event)
	for _, m := range members {
		if err := m.write(payload); err != nil {
			log.Warn().Err(err).Int("chat_id", chatID).Msg("websocket write error")
			h.publishWSError(chatID, m.conn, err)
			m.conn.Close()
			h.RemoveChatClient(chatID, m.conn)
		}
	}
}

func (m roomMember) write(payload []byte) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if err := m.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return m.conn.WriteMessage(websocket.TextMessage, payload)
}

func (h *Hub) publishWSError(chatID int, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(chatID, conn)
	if !ok {
		return
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), wsRoutingKey, wsEnvelope("ws_error", chatID, info, time.Since(info.ConnectedAt), err.Error()), headers)
	observability.IncWSEvent(chatKind, "ws_error")
}

func (h *Hub) getConnInfo(chatID int, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if infos, ok := h.chatConnInfo[chatID]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}
