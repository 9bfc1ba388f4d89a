package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eadcode/OnlineDatingApp/internal/mocks"
	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
	"github.com/eadcode/OnlineDatingApp/internal/ws"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	r := newTestRouter(1)
	r.GET("/chats", handler.ListChats)
	r.POST("/startChat/:id", handler.StartChat)
	r.GET("/chat/:id", handler.GetChat)
	r.POST("/chat/:id", handler.PostChatMessage)
	r.DELETE("/chat/:id", handler.DeleteChat)
	return r
}

func TestListChatsSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	chatRepo.On("ListChats", mock.Anything, 1).
		Return([]models.ChatSummary{{}}, []models.ChatSummary{}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/chats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Len(t, resp["received"], 1)
	assert.Len(t, resp["sent"], 0)
	chatRepo.AssertExpectations(t)
}

func TestListChatsRepoError(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	chatRepo.On("ListChats", mock.Anything, 1).Return(nil, nil, assert.AnError).Once()

	rec := doJSON(router, http.MethodGet, "/chats", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal", decodeBody(t, rec)["kind"])
	chatRepo.AssertExpectations(t)
}

func TestStartChatCreated(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	chat := models.Chat{ID: 10, User1ID: 1, User2ID: 2, InitiatorID: 1}
	chatRepo.On("StartChat", mock.Anything, 1, 2).Return(chat, true, nil).Once()
	chatRepo.On("GetThread", mock.Anything, 10, 1).Return(models.Thread{Chat: chat}, nil).Once()

	rec := doJSON(router, http.MethodPost, "/startChat/2", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["created"])
	chatRepo.AssertExpectations(t)
}

func TestStartChatExistingReturnsOK(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	chat := models.Chat{ID: 10, User1ID: 1, User2ID: 2, InitiatorID: 2}
	chatRepo.On("StartChat", mock.Anything, 1, 2).Return(chat, false, nil).Once()
	chatRepo.On("GetThread", mock.Anything, 10, 1).Return(models.Thread{Chat: chat}, nil).Once()

	rec := doJSON(router, http.MethodPost, "/startChat/2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestStartChatWithSelf(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	chatRepo.On("StartChat", mock.Anything, 1, 1).Return(nil, false, repositories.ErrChatWithSelf).Once()

	rec := doJSON(router, http.MethodPost, "/startChat/1", "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestGetChatMalformedID(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	rec := doJSON(router, http.MethodGet, "/chat/abc", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	chatRepo.AssertNotCalled(t, "GetThread", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetChatNonParticipant(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	chatRepo.On("GetThread", mock.Anything, 5, 1).Return(nil, repositories.ErrChatNotFound).Once()

	rec := doJSON(router, http.MethodGet, "/chat/5", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["kind"])
	chatRepo.AssertExpectations(t)
}

func TestPostChatMessageSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, ws.NewHub(), nil, 1))

	msg := models.Message{ID: 7, ChatID: 5, AuthorID: 1, Body: "hello"}
	chatRepo.On("PostMessage", mock.Anything, 5, 1, "hello", 1).Return(msg, 9, nil).Once()
	chatRepo.On("GetThread", mock.Anything, 5, 1).Return(models.Thread{Messages: []models.Message{msg}}, nil).Once()

	rec := doForm(router, http.MethodPost, "/chat/5", "message=+hello+")

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody(t, rec)
	assert.EqualValues(t, 9, resp["wallet"])
	chatRepo.AssertExpectations(t)
}

func TestPostChatMessageEmptyBody(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	rec := doJSON(router, http.MethodPost, "/chat/5", `{"message":"   "}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "validation", resp["kind"])
	assert.Contains(t, resp["fields"], "message")
	chatRepo.AssertNotCalled(t, "PostMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostChatMessageInsufficientFunds(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	chatRepo.On("PostMessage", mock.Anything, 5, 1, "hi", 1).Return(nil, 0, repositories.ErrInsufficientFunds).Once()

	rec := doJSON(router, http.MethodPost, "/chat/5", `{"message":"hi"}`)

	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "insufficient_funds", decodeBody(t, rec)["kind"])
	chatRepo.AssertExpectations(t)
}

func TestDeleteChat(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(NewChatHandler(chatRepo, nil, nil, 1))

	chatRepo.On("DeleteChat", mock.Anything, 5, 1).Return(nil).Once()

	rec := doJSON(router, http.MethodDelete, "/chat/5", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	chatRepo.AssertExpectations(t)
}
