package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eadcode/OnlineDatingApp/internal/accounts"
	"github.com/eadcode/OnlineDatingApp/internal/billing"
	"github.com/eadcode/OnlineDatingApp/internal/handlers"
	"github.com/eadcode/OnlineDatingApp/internal/middleware"
	"github.com/eadcode/OnlineDatingApp/internal/mocks"
	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/session"
	"github.com/eadcode/OnlineDatingApp/internal/ws"
)

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error {
	return p.err
}

type routerFixture struct {
	router   *gin.Engine
	sessions *session.Manager
	users    *mocks.UserRepositoryMock
	chats    *mocks.ChatRepositoryMock
	wallets  *mocks.WalletRepositoryMock
	posts    *mocks.PostRepositoryMock
}

func newFixture(pinger fakePinger) routerFixture {
	return newLimitedFixture(pinger, middleware.NewRateLimiter(100, 100))
}

func newLimitedFixture(pinger fakePinger, limiter *middleware.RateLimiter) routerFixture {
	gin.SetMode(gin.TestMode)
	f := routerFixture{
		sessions: session.NewManager("router-secret", time.Hour, "dating-test"),
		users:    new(mocks.UserRepositoryMock),
		chats:    new(mocks.ChatRepositoryMock),
		wallets:  new(mocks.WalletRepositoryMock),
		posts:    new(mocks.PostRepositoryMock),
	}
	friends := new(mocks.FriendRepositoryMock)
	hub := ws.NewHub()

	f.router = NewRouter(Deps{
		ServiceName:    "dating-test",
		Sessions:       f.sessions,
		Wallets:        f.wallets,
		PublishableKey: "pk_test",
		RateLimiter:    limiter,
		Pinger:         pinger,

		Auth:     handlers.NewAuthHandler(accounts.NewService(f.users, 6), f.users, f.sessions, nil, false),
		Profile:  handlers.NewProfileHandler(f.users, friends, nil),
		Chat:     handlers.NewChatHandler(f.chats, hub, nil, 1),
		ChatWS:   ws.NewChatWebSocketHandler(hub, f.chats, f.sessions),
		Wallet:   handlers.NewWalletHandler(billing.NewService(new(mocks.ProcessorMock), f.wallets), f.wallets, f.users, nil, "pk_test"),
		Friends:  handlers.NewFriendHandler(friends, nil),
		Posts:    handlers.NewPostHandler(f.posts, friends),
		Smiles:   handlers.NewSmileHandler(new(mocks.SmileRepositoryMock)),
		Contacts: handlers.NewContactHandler(new(mocks.ContactRepositoryMock)),
	})
	return f
}

func (f routerFixture) do(t *testing.T, method, path string, userID int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if userID != 0 {
		token, err := f.sessions.Issue(userID)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := newFixture(fakePinger{}).do(t, http.MethodGet, "/healthz", 0)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = newFixture(fakePinger{err: errors.New("down")}).do(t, http.MethodGet, "/healthz", 0)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	f := newFixture(fakePinger{})

	rec := f.do(t, http.MethodGet, "/profile", 0)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestProfileWithSession(t *testing.T) {
	f := newFixture(fakePinger{})
	f.users.On("SetOnline", mock.Anything, 5, true).Return(nil).Once()
	f.users.On("FindByID", mock.Anything, 5).Return(models.User{ID: 5, Fullname: "Ann"}, nil).Once()

	rec := f.do(t, http.MethodGet, "/profile", 5)

	require.Equal(t, http.StatusOK, rec.Code)
	f.users.AssertExpectations(t)
}

func TestChatPostBlockedByWalletGate(t *testing.T) {
	f := newFixture(fakePinger{})
	f.wallets.On("Balance", mock.Anything, 5).Return(0, nil).Once()

	rec := f.do(t, http.MethodPost, "/chat/3", 5)

	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	recharge := resp["recharge"].(map[string]any)
	assert.Equal(t, "pk_test", recharge["publishable_key"])
	assert.Len(t, recharge["packages"], len(billing.Packages))
	f.chats.AssertNotCalled(t, "PostMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChargeRoutesRegistered(t *testing.T) {
	f := newFixture(fakePinger{})
	for _, pkg := range billing.Packages {
		rec := f.do(t, http.MethodPost, pkg.Path, 0)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, pkg.Path)
	}
}

func TestPublicFeedRoute(t *testing.T) {
	f := newFixture(fakePinger{})
	f.posts.On("ListPublic", mock.Anything).Return([]models.FeedItem{}, nil).Once()

	rec := f.do(t, http.MethodGet, "/posts", 5)

	require.Equal(t, http.StatusOK, rec.Code)
	f.posts.AssertExpectations(t)
}

func TestDebugRoutesDisabledByDefault(t *testing.T) {
	rec := newFixture(fakePinger{}).do(t, http.MethodGet, "/debug/audit-test", 0)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	f := newLimitedFixture(fakePinger{}, middleware.NewRateLimiter(1, 1))

	passed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusTooManyRequests {
			passed++
		}
	}

	assert.Equal(t, 1, passed)
}
