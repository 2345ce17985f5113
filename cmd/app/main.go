package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coldopen/internal/api/v1/router"
	"coldopen/internal/config"
	"coldopen/internal/keepalive"
	"coldopen/internal/logger"
	"coldopen/internal/session"

	"github.com/joho/godotenv"
)

// Sessions older than this are forgotten; the popup rebuilds its state from
// a fresh generation anyway.
const sessionMaxAge = 2 * time.Hour

func main() {
	// 1. Load configuration. The .env file has to load before the logger so
	// ENVIRONMENT can pick the output format.
	dotenvErr := godotenv.Load()

	logger := logger.New(os.Getenv("ENVIRONMENT"))
	if dotenvErr != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// 2. Build router (and get DB pool)
	sessions := session.NewManager()
	r, pool, err := router.New(context.Background(), cfg, logger, sessions)
	if err != nil {
		logger.Fatal().Msgf("Failed to build router: %v", err)
	}
	defer pool.Close()

	// 3. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Prune stale pipeline sessions on a schedule
	scheduler := keepalive.NewStandardScheduler(logger)
	if err := scheduler.Schedule("@every 30m", func() {
		if n := sessions.Prune(sessionMaxAge); n > 0 {
			logger.Info().Int("sessions_pruned", n).Msg("Pruned stale sessions")
		}
	}); err != nil {
		logger.Fatal().Msgf("Failed to schedule session pruning: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 5. Start server in a goroutine
	go func() {
		logger.Info().Msgf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Msgf("Server forced to shutdown: %v", err)
	}
	logger.Info().Msg("Server shut down gracefully")
}
