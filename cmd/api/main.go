package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/01moynul/strongx-golang/internal/ai"
	"github.com/01moynul/strongx-golang/internal/auth"
	"github.com/01moynul/strongx-golang/internal/config"
	"github.com/01moynul/strongx-golang/internal/database"
	"github.com/01moynul/strongx-golang/internal/handlers"
	"github.com/01moynul/strongx-golang/internal/logging"
	"github.com/01moynul/strongx-golang/internal/membership"
	"github.com/01moynul/strongx-golang/internal/middleware"
	"github.com/01moynul/strongx-golang/internal/routes"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *sql.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	return db
}

// setupAI returns nil when no key is configured; the AI routes then answer 503.
func setupAI(cfg *config.Config) *ai.AIService {
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, AI features disabled")
		return nil
	}
	svc, err := ai.NewAIService(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("Failed to initialize AI service, AI features disabled", "error", err)
		return nil
	}
	return svc
}

func main() {
	// 0. --- Config & Logging ---
	cfg := setupConfig()
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Starting StrongX API", "env", cfg.AppEnv, "port", cfg.Port)

	// 1. --- Database ---
	db := setupDB(cfg)
	defer db.Close()

	// 2. --- Services ---
	clock := clockwork.NewRealClock()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, clock)

	aiService := setupAI(cfg)
	if aiService != nil {
		defer aiService.Close()
	}

	app := handlers.New(db, tokens, aiService, clock)
	app.Uploads = handlers.Uploader{Dir: cfg.UploadDir, BaseURL: cfg.BaseURL}

	// 3. --- Background Workers (Cron) ---
	scheduler, err := membership.NewScheduler(cfg.ExpirySchedule, membership.NewSweeper(db, clock))
	if err != nil {
		slog.Error("Failed to schedule membership expiry", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	slog.Info("Membership expiry job scheduled", "schedule", cfg.ExpirySchedule)

	stopCleanup := make(chan struct{})
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMin, cfg.LoginRatePerMin)
	aiLimiter := middleware.NewRateLimiter(20, 5)
	loginLimiter.StartCleanup(10*time.Minute, stopCleanup)
	aiLimiter.StartCleanup(10*time.Minute, stopCleanup)

	// 4. --- Router & Server ---
	router := routes.SetupRouter(app, routes.Options{
		Production:   cfg.IsProduction(),
		CORSOrigins:  cfg.AllowedOrigins(),
		LoginLimiter: loginLimiter,
		AILimiter:    aiLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// 5. --- Graceful Shutdown ---
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	slog.Info("Shutdown signal received, cleaning up...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	close(stopCleanup)
	scheduler.Stop(shutdownCtx)

	slog.Info("Server stopped")
}
