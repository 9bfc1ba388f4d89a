package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/eadcode/OnlineDatingApp/internal/accounts"
	"github.com/eadcode/OnlineDatingApp/internal/billing"
	"github.com/eadcode/OnlineDatingApp/internal/config"
	"github.com/eadcode/OnlineDatingApp/internal/db"
	grpcserver "github.com/eadcode/OnlineDatingApp/internal/grpc"
	"github.com/eadcode/OnlineDatingApp/internal/handlers"
	"github.com/eadcode/OnlineDatingApp/internal/identity"
	"github.com/eadcode/OnlineDatingApp/internal/logging"
	"github.com/eadcode/OnlineDatingApp/internal/middleware"
	"github.com/eadcode/OnlineDatingApp/internal/observability"
	"github.com/eadcode/OnlineDatingApp/internal/rabbitmq"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
	"github.com/eadcode/OnlineDatingApp/internal/server"
	"github.com/eadcode/OnlineDatingApp/internal/session"
	"github.com/eadcode/OnlineDatingApp/internal/telemetry"
	"github.com/eadcode/OnlineDatingApp/internal/ws"
)

func main() {
	root := &cobra.Command{
		Use:           "dating",
		Short:         "Online dating web service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC health servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("exit")
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logging.Setup(cfg.LogLevel, cfg.Environment, cfg.ServiceName)
	return cfg, nil
}

func runMigrate(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := db.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	return database.Close()
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	database, err := db.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Info().Str("mode", rabbitmq.PublisherMode(publisher)).Str("reason", rabbitmq.PublisherNoopReason(publisher)).Msg("event publisher ready")
	observability.SetPublisher(publisher)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.logs", cfg.ServiceName, cfg.Environment)

	userRepo := repositories.NewUserRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	friendRepo := repositories.NewFriendRepo(database)
	postRepo := repositories.NewPostRepo(database)
	smileRepo := repositories.NewSmileRepo(database)
	contactRepo := repositories.NewContactRepo(database)
	walletRepo := repositories.NewWalletRepo(database)

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.ServiceName)
	accountSvc := accounts.NewService(userRepo, cfg.MinPasswordLength)
	billingSvc := billing.NewService(billing.NewStripeProcessor(cfg.StripeSecretKey), walletRepo)
	facebook := identity.NewFacebook(identity.Credentials(cfg.Facebook))
	google := identity.NewGoogle(identity.Credentials(cfg.Google))

	hub := ws.NewHub()
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	limiter.StartCleanup(5*time.Minute, ctx.Done())

	router := server.NewRouter(server.Deps{
		ServiceName:    cfg.ServiceName,
		Sessions:       sessions,
		Wallets:        walletRepo,
		PublishableKey: cfg.StripePublishableKey,
		RateLimiter:    limiter,
		Pinger:         database,
		DebugRoutes:    cfg.DebugRoutes,
		TrustedProxies: cfg.TrustedProxies,

		Auth:     handlers.NewAuthHandler(accountSvc, userRepo, sessions, emitter, cfg.CookieSecure, facebook, google),
		Profile:  handlers.NewProfileHandler(userRepo, friendRepo, emitter),
		Chat:     handlers.NewChatHandler(chatRepo, hub, emitter, cfg.MessageCost),
		ChatWS:   ws.NewChatWebSocketHandler(hub, chatRepo, sessions),
		Wallet:   handlers.NewWalletHandler(billingSvc, walletRepo, userRepo, emitter, cfg.StripePublishableKey),
		Friends:  handlers.NewFriendHandler(friendRepo, emitter),
		Posts:    handlers.NewPostHandler(postRepo, friendRepo),
		Smiles:   handlers.NewSmileHandler(smileRepo),
		Contacts: handlers.NewContactHandler(contactRepo),
		Debug:    handlers.NewDebugHandler(emitter, hub),
	})

	if cfg.GRPCPort != "" {
		health := grpcserver.NewHealthServer(database)
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return err
		}
		go health.Watch(ctx, 15*time.Second)
		go func() {
			if err := health.Serve(lis); err != nil {
				log.Error().Err(err).Msg("grpc server error")
			}
		}()
		defer health.Stop()
		log.Info().Str("port", cfg.GRPCPort).Msg("grpc health server listening")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
