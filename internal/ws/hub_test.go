package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eadcode/OnlineDatingApp/internal/mocks"
	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/session"
)

func TestHubAddAndRemoveChatClient(t *testing.T) {
	hub := NewHub()

	hub.AddChatClient(1, nil, ConnInfo{})
	if len(hub.chatRooms) != 1 {
		t.Fatalf("expected chat room to be created")
	}

	hub.RemoveChatClient(1, nil)
	if len(hub.chatRooms) != 0 {
		t.Fatalf("expected chat room to be removed")
	}
	if len(hub.chatConnInfo) != 0 {
		t.Fatalf("expected conn info to be removed")
	}
	if len(hub.writeLocks) != 0 {
		t.Fatalf("expected write lock to be removed")
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.BroadcastChatMessage(99, models.Message{ID: 1})
	})
}

// dialChat connects user 1 to chat 5 on a live server and waits until the hub
// has registered the connection.
func dialChat(t *testing.T) (*Hub, *websocket.Conn, *mocks.ChatRepositoryMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager("secret", time.Hour, "test")
	chatRepo := new(mocks.ChatRepositoryMock)
	chatRepo.On("IsParticipant", mock.Anything, 5, 1).Return(true, nil).Once()

	hub := NewHub()
	r := gin.New()
	r.GET("/ws/chats/:chat_id", NewChatWebSocketHandler(hub, chatRepo, sessions).Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	token, err := sessions.Issue(1)
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chats/5?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.RoomSize(5) == 1 }, time.Second, 10*time.Millisecond)
	return hub, conn, chatRepo
}

func TestChatSocketDeliversBroadcast(t *testing.T) {
	hub, conn, chatRepo := dialChat(t)
	hub.BroadcastChatMessage(5, models.Message{ID: 8, ChatID: 5, AuthorID: 2, Body: "hi"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event models.ChatEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "message", event.Type)
	require.NotNil(t, event.Message)
	assert.Equal(t, "hi", event.Message.Body)
	chatRepo.AssertExpectations(t)
}

func TestConcurrentBroadcastsReachClient(t *testing.T) {
	hub, conn, _ := dialChat(t)

	const senders = 50
	var wg sync.WaitGroup
	for i := 1; i <= senders; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			hub.BroadcastChatMessage(5, models.Message{ID: id, ChatID: 5, AuthorID: 2, Body: "hi"})
		}(i)
	}

	seen := make(map[int]bool, senders)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for len(seen) < senders {
		var event models.ChatEvent
		require.NoError(t, conn.ReadJSON(&event))
		require.NotNil(t, event.Message)
		seen[event.Message.ID] = true
	}
	wg.Wait()

	assert.Len(t, seen, senders)
	assert.Equal(t, 1, hub.RoomSize(5))
}

func TestChatSocketRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager("secret", time.Hour, "test")
	r := gin.New()
	r.GET("/ws/chats/:chat_id", NewChatWebSocketHandler(NewHub(), new(mocks.ChatRepositoryMock), sessions).Handle)

	req := httptest.NewRequest(http.MethodGet, "/ws/chats/5?token=nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatSocketRejectsNonParticipant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager("secret", time.Hour, "test")
	chatRepo := new(mocks.ChatRepositoryMock)
	chatRepo.On("IsParticipant", mock.Anything, 5, 3).Return(false, nil).Once()
	r := gin.New()
	r.GET("/ws/chats/:chat_id", NewChatWebSocketHandler(NewHub(), chatRepo, sessions).Handle)

	token, err := sessions.Issue(3)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/ws/chats/5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
