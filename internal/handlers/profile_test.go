package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/mocks"
	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
)

func TestSinglesHidesPrivateFields(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewProfileHandler(users, new(mocks.FriendRepositoryMock), nil)
	router := newTestRouter(1)
	router.GET("/singles", handler.Singles)

	users.On("ListSingles", mock.Anything).
		Return([]models.User{{ID: 2, Fullname: "Bo", Email: "bo@example.com", City: "Oslo", Wallet: 30}}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/singles", "")

	require.Equal(t, http.StatusOK, rec.Code)
	singles := decodeBody(t, rec)["singles"].([]any)
	require.Len(t, singles, 1)
	card := singles[0].(map[string]any)
	assert.Equal(t, "Oslo", card["city"])
	assert.NotContains(t, card, "email")
	assert.NotContains(t, card, "wallet")
	users.AssertExpectations(t)
}

func TestUserProfileAnonymousViewer(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	handler := NewProfileHandler(users, friends, nil)
	router := newTestRouter(0)
	router.GET("/userProfile/:id", handler.UserProfile)

	users.On("FindByID", mock.Anything, 2).Return(models.User{ID: 2, Fullname: "Bo"}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/userProfile/2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decodeBody(t, rec), "is_friend")
	friends.AssertNotCalled(t, "AreFriends", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserProfileSignedInViewer(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	handler := NewProfileHandler(users, friends, nil)
	router := newTestRouter(1)
	router.GET("/userProfile/:id", handler.UserProfile)

	users.On("FindByID", mock.Anything, 2).Return(models.User{ID: 2, Fullname: "Bo"}, nil).Once()
	friends.On("AreFriends", mock.Anything, 1, 2).Return(true, nil).Once()

	rec := doJSON(router, http.MethodGet, "/userProfile/2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["is_friend"])
}

func TestUpdateProfileValidation(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewProfileHandler(users, new(mocks.FriendRepositoryMock), nil)
	router := newTestRouter(1)
	router.POST("/updateProfile", handler.UpdateProfile)

	rec := doForm(router, http.MethodPost, "/updateProfile", "fullname=Ann&email=nope")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewProfileHandler(users, new(mocks.FriendRepositoryMock), nil)
	router := newTestRouter(1)
	router.POST("/updateProfile", handler.UpdateProfile)

	users.On("UpdateProfile", mock.Anything, 1, mock.Anything).Return(nil, repositories.ErrDuplicateEmail).Once()

	rec := doForm(router, http.MethodPost, "/updateProfile", "fullname=Ann&email=taken@example.com&age=30")

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteAccount(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewProfileHandler(users, new(mocks.FriendRepositoryMock), nil)
	router := newTestRouter(1)
	router.GET("/deleteAccount", handler.DeleteAccount)

	users.On("Delete", mock.Anything, 1).Return(nil).Once()

	rec := doJSON(router, http.MethodGet, "/deleteAccount", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	users.AssertExpectations(t)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{apperrors.Validation("bad", map[string]string{"f": "x"}), http.StatusUnprocessableEntity, "validation"},
		{repositories.ErrDuplicateEmail, http.StatusConflict, "duplicate_email"},
		{repositories.ErrFriendshipExists, http.StatusConflict, "conflict"},
		{fmt.Errorf("wrapped: %w", repositories.ErrChatNotFound), http.StatusNotFound, "not_found"},
		{apperrors.Unauthenticated("who"), http.StatusUnauthorized, "unauthenticated"},
		{repositories.ErrNotPostOwner, http.StatusForbidden, "unauthorized"},
		{repositories.ErrInsufficientFunds, http.StatusPaymentRequired, "insufficient_funds"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondError(c, tc.err)

		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Equal(t, tc.kind, decodeBody(t, rec)["kind"], tc.err.Error())
	}
}
