// Package server assembles the HTTP router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/eadcode/OnlineDatingApp/internal/billing"
	grpcserver "github.com/eadcode/OnlineDatingApp/internal/grpc"
	"github.com/eadcode/OnlineDatingApp/internal/handlers"
	"github.com/eadcode/OnlineDatingApp/internal/logging"
	"github.com/eadcode/OnlineDatingApp/internal/middleware"
	"github.com/eadcode/OnlineDatingApp/internal/observability"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
	"github.com/eadcode/OnlineDatingApp/internal/session"
	"github.com/eadcode/OnlineDatingApp/internal/ws"
)

// Deps carries everything the routes need.
type Deps struct {
	ServiceName    string
	Sessions       *session.Manager
	Wallets        repositories.WalletRepository
	PublishableKey string
	RateLimiter    *middleware.RateLimiter
	Pinger         grpcserver.Pinger
	DebugRoutes    bool
	TrustedProxies []string

	Auth     *handlers.AuthHandler
	Profile  *handlers.ProfileHandler
	Chat     *handlers.ChatHandler
	ChatWS   *ws.ChatWebSocketHandler
	Wallet   *handlers.WalletHandler
	Friends  *handlers.FriendHandler
	Posts    *handlers.PostHandler
	Smiles   *handlers.SmileHandler
	Contacts *handlers.ContactHandler
	Debug    *handlers.DebugHandler
}

// NewRouter registers middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(d.TrustedProxies); err != nil {
		log.Error().Err(err).Strs("trusted_proxies", d.TrustedProxies).Msg("invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	// middlewares
	router.Use(gin.Recovery())
	router.Use(logging.RequestID())
	router.Use(otelgin.Middleware(d.ServiceName))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(logging.RequestLogger())

	authMiddleware := middleware.AuthMiddleware(d.Sessions)
	optionalAuth := middleware.OptionalAuth(d.Sessions)
	walletGate := middleware.WalletGate(d.Wallets, d.PublishableKey)
	limit := d.RateLimiter.Handler()

	router.GET("/healthz", healthz(d.Pinger))
	router.GET("/metrics", observability.MetricsHandler())

	router.POST("/contactUs", d.Contacts.Submit)

	router.GET("/signup", d.Auth.SignupForm)
	router.POST("/signup", limit, d.Auth.Signup)
	router.POST("/login", limit, d.Auth.Login)
	router.GET("/logout", authMiddleware, d.Auth.Logout)
	router.GET("/auth/:provider", d.Auth.OAuthStart)
	router.GET("/auth/:provider/callback", limit, d.Auth.OAuthCallback)

	router.GET("/profile", authMiddleware, d.Profile.Profile)
	router.POST("/updateProfile", authMiddleware, d.Profile.UpdateProfile)
	router.GET("/singles", authMiddleware, d.Profile.Singles)
	router.GET("/userProfile/:id", optionalAuth, d.Profile.UserProfile)
	router.GET("/deleteAccount", authMiddleware, d.Profile.DeleteAccount)

	router.GET("/startChat/:id", authMiddleware, d.Chat.StartChat)
	router.GET("/chat/:id", authMiddleware, d.Chat.GetChat)
	router.POST("/chat/:id", authMiddleware, walletGate, d.Chat.PostChatMessage)
	router.GET("/chats", authMiddleware, d.Chat.ListChats)
	router.GET("/deleteChat/:id", authMiddleware, d.Chat.DeleteChat)
	router.GET("/ws/chats/:chat_id", d.ChatWS.Handle)

	router.GET("/wallet", authMiddleware, d.Wallet.Wallet)
	for _, pkg := range billing.Packages {
		router.POST(pkg.Path, authMiddleware, d.Wallet.Charge(pkg))
	}

	router.GET("/sendSmile/:id", authMiddleware, d.Smiles.Send)
	router.GET("/showSmile/:id", authMiddleware, d.Smiles.Show)
	router.GET("/deleteSmile/:id", authMiddleware, d.Smiles.Delete)
	router.GET("/smiles", authMiddleware, d.Smiles.List)

	router.POST("/createPost", authMiddleware, d.Posts.Create)
	router.GET("/posts", authMiddleware, d.Posts.ListPublic)
	router.GET("/profilePosts", authMiddleware, d.Posts.ProfilePosts)
	router.GET("/userPosts/:id", authMiddleware, d.Posts.UserPosts)
	router.GET("/post/:id", authMiddleware, d.Posts.Get)
	router.POST("/editPost/:id", authMiddleware, d.Posts.Edit)
	router.GET("/deletePost/:id", authMiddleware, d.Posts.Delete)
	router.GET("/likePost/:id", authMiddleware, d.Posts.Like)
	router.GET("/unlikePost/:id", authMiddleware, d.Posts.Unlike)
	router.POST("/leaveComment/:id", authMiddleware, d.Posts.Comment)

	router.GET("/sendFriendRequest/:id", authMiddleware, d.Friends.SendRequest)
	router.GET("/acceptFriend/:id", authMiddleware, d.Friends.Accept)
	router.GET("/rejectFriend/:id", authMiddleware, d.Friends.Reject)
	router.GET("/removeFriend/:id", authMiddleware, d.Friends.Remove)
	router.GET("/friends", authMiddleware, d.Friends.List)

	handlers.RegisterDebugRoutes(router, d.Debug, d.DebugRoutes, authMiddleware)
	return router
}

func healthz(pinger grpcserver.Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pinger.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
