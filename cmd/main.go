package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trip-planner/internal/auth"
	"trip-planner/internal/config"
	"trip-planner/internal/database"
	"trip-planner/internal/handlers"
	"trip-planner/internal/jobs"
	"trip-planner/internal/monitoring"
	"trip-planner/internal/repository"
	"trip-planner/internal/security"
	"trip-planner/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	monitoring.InitLogger(cfg.Monitoring.LogLevel)
	monitoring.InitErrorTracking(cfg.Monitoring.ErrorTrackingDSN, cfg.App.Environment)
	defer monitoring.FlushErrorTracking()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.Database.Driver, cfg.GetDSN()); err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}

	// postgres schemas are managed by `tripctl migrate`
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(database.GetDB()); err != nil {
			slog.Error("failed to run migrations", "err", err)
			os.Exit(1)
		}
	}

	repo := repository.NewRepository(database.GetDB())
	tripService := services.NewTripService(repo)
	invitationService := services.NewInvitationService(repo, tripService, services.InvitationOptions{
		TTL:            cfg.Invite.TTL,
		DefaultMaxUses: cfg.Invite.DefaultMaxUses,
		LinkBaseURL:    cfg.Server.FrontendURL,
	})

	var reconciler *jobs.InvitationReconciler
	if cfg.Invite.ReconcileInterval > 0 {
		reconciler = jobs.NewInvitationReconciler(invitationService, cfg.Invite.ReconcileInterval)
		go reconciler.Start()
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Invitations:    invitationService,
		Trips:          tripService,
		Limiter:        security.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.CacheSize),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "driver", cfg.Database.Driver, "env", cfg.App.Environment)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	if reconciler != nil {
		reconciler.Stop()
	}

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "err", err)
	}

	slog.Info("server exited")
}
