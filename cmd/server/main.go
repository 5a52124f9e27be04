package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anonto42/pulse/backend/internal/handlers"
	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/router"
	"github.com/anonto42/pulse/backend/internal/services"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/config"
	"github.com/anonto42/pulse/backend/pkg/firebase"
	"github.com/anonto42/pulse/backend/pkg/logger"
	"github.com/anonto42/pulse/backend/pkg/session"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		Path:       cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer config.CloseDB(db)

	ctx := context.Background()

	var inv views.Invalidator = views.NewRecorder()
	if cfg.RedisURL != "" {
		client, err := views.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Logger.Fatal("Failed to initialize redis", zap.Error(err))
		}
		defer client.Close()
		inv = views.NewRedisInvalidator(client)
		logger.Sugar.Info("View versions stored in redis")
	} else {
		logger.Sugar.Warn("REDIS_URL not set, view versions are kept in process memory")
	}

	var verifier handlers.IdentityVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Logger.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
		logger.Logger.Warn("Firebase unavailable, login is disabled", zap.Error(err))
	} else {
		verifier = firebaseApp
	}

	svc := services.New(repositories.NewStore(db), inv, services.Options{
		FeedPageSize:        cfg.FeedPageSize,
		SuggestedUsersLimit: cfg.SuggestedUsersLimit,
	})

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	router.SetupMiddleware(e, cfg.RateLimitPerSecond)
	if err := router.SetupRoutes(e, router.Deps{
		DB:       db,
		Services: svc,
		Views:    inv,
		Sessions: session.NewManager(cfg.JWTSecret, cfg.SessionTTL),
		Verifier: verifier,
	}); err != nil {
		logger.Logger.Fatal("Failed to set up routes", zap.Error(err))
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Sugar.Infof("Metrics listening on :%s", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Sugar.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Metrics shutdown failed", zap.Error(err))
	}
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.NewHandler())
	return mux
}
