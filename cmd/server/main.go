package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "campuslink-backend/internal/api/http"
	"campuslink-backend/internal/config"
	"campuslink-backend/internal/jobs"
	"campuslink-backend/internal/logger"
	"campuslink-backend/internal/push"
	"campuslink-backend/internal/repository/postgres"
	"campuslink-backend/internal/scheduler"
	"campuslink-backend/internal/security"
	"campuslink-backend/internal/service"
	"campuslink-backend/internal/storage"
	"campuslink-backend/internal/verification"

	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting server", "address", cfg.GetServerAddress())

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Error("Failed to reach database", "error", err)
		os.Exit(1)
	}
	cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddress(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		cancel()
		logger.Error("Failed to reach redis", "error", err)
		os.Exit(1)
	}
	cancel()

	backend, err := newStorageBackend(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	pusher := newPushSender(cfg)

	store := postgres.NewStore(db)
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	codes := verification.NewRedisCodeStore(redisClient)
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.From, cfg.SendGrid.FromName)

	handlers := api.NewHandlers(
		service.NewAuthService(store, tokens, codes, backend, cfg.Storage.MaxFileSizeMB),
		service.NewVerificationService(codes, emailSvc),
		service.NewApprovalService(store, emailSvc, backend, cfg.Storage.MaxFileSizeMB),
		service.NewStudentService(store),
		service.NewEventService(store),
		service.NewNotificationService(store),
		service.NewSettingsService(store),
		service.NewActivityService(store),
		backend,
	)

	dispatcher := jobs.NewOutboxDispatcher(store, pusher,
		int32(cfg.Scheduler.OutboxBatchSize), int32(cfg.Scheduler.OutboxMaxDeliveryRetries))
	maintenance := jobs.NewMaintenanceJobs(store, backend)

	sched, err := scheduler.New(cfg.Scheduler, dispatcher, maintenance)
	if err != nil {
		logger.Error("Failed to build scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	router := api.NewRouter(handlers, tokens, redisClient, cfg)
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.Server.RequestTimeout+5) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func newStorageBackend(cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.Storage.Type == "minio" {
		return storage.NewMinIOStorageService(cfg.Storage)
	}
	baseURL := cfg.Storage.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s", cfg.GetServerAddress())
	}
	return storage.NewLocalStorageService(baseURL, cfg.Storage.UploadDir)
}

func newPushSender(cfg *config.Config) push.Sender {
	if !cfg.Firebase.Enabled || cfg.Firebase.CredentialsFile == "" {
		logger.Info("Push notifications disabled")
		return push.NewNoopSender()
	}
	sender, err := push.NewFCMSender(context.Background(), cfg.Firebase.CredentialsFile)
	if err != nil {
		logger.Error("Failed to initialize push sender, continuing without push", "error", err)
		return push.NewNoopSender()
	}
	return sender
}
