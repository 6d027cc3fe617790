package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/jagman11/match--royale/config"
	"github.com/jagman11/match--royale/logger"
	"github.com/jagman11/match--royale/routes"
	"github.com/jagman11/match--royale/services"
	"github.com/jagman11/match--royale/socket"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// stores bundles the three store interfaces served by one backend
type stores interface {
	services.ProfileStore
	services.MessageStore
	services.AccountStore
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := services.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, awsCfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.S3Bucket == "" {
		log.Warn("⚠️ S3_BUCKET_NAME is not set, image uploads will fail")
	}

	// Initialize Services
	images := services.NewS3Service(awsCfg, cfg.S3Bucket, cfg.S3PublicBaseURL, log)
	authService := services.NewAuthService(store, store, cfg.JWTSecret, cfg.TokenTTL, log)
	matchService := services.NewMatchService(store, log, cfg.MatchWriteRetries, cfg.MatchRetryInterval)
	chatService := services.NewChatService(store, log)

	router := routes.NewRouter(routes.Services{
		Auth:     authService,
		Profiles: services.NewUserProfileService(store, images, log),
		Matches:  matchService,
		Swipes:   services.NewSwipeService(store, matchService, log),
		Chat:     chatService,
		Images:   images,
	}, log)

	socketServer := socket.NewSocketServer(&socket.Hub{Chat: chatService, Auth: authService, Log: log})
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Errorf("❌ Socket server stopped: %v", err)
		}
	}()
	defer socketServer.Close()
	router.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsHandler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 Starting server on port %s (store: %s)", cfg.Port, cfg.StoreDriver)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("🛑 Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// openStore selects the backend named by STORE_DRIVER
func openStore(cfg config.Config, awsCfg aws.Config, log *zap.SugaredLogger) (stores, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverBadger:
		store, err := services.OpenBadgerStore(cfg.BadgerPath, log)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("✅ Badger store opened at %s", cfg.BadgerPath)
		return store, func() {
			if err := store.Close(); err != nil {
				log.Errorf("❌ Failed to close badger: %v", err)
			}
		}, nil
	default:
		client := services.InitializeDynamoDBClient(awsCfg, cfg.DynamoEndpoint)
		log.Info("✅ DynamoDB client initialized")
		return &services.DynamoService{Client: client, Log: log}, func() {}, nil
	}
}
