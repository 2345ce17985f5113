// The sweeper restores free-plan credit allowances in bulk so balances are
// fresh even for users who never open the popup. It runs either once (for a
// cron job or a Cloud Run job) or as a small daemon with its own schedule.
// Per-request checks make the sweep safe to skip; it only tightens the
// window in which a due user sees a stale balance.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"coldopen/internal/chrono"
	"coldopen/internal/config"
	"coldopen/internal/keepalive"
	"coldopen/internal/logger"
	"coldopen/internal/repository"
	"coldopen/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	once := flag.Bool("once", false, "Run a single sweep and exit")
	flag.Parse()

	dotenvErr := godotenv.Load()
	logger := logger.New(os.Getenv("ENVIRONMENT"))
	if dotenvErr != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		logger.Fatal().Msgf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
	}
	logger.Info().Msg("Database connection established")

	userRepo := repository.NewUserRepo(pool)
	creditRepo := repository.NewCreditRepo(pool)
	creditSvc := service.NewCreditService(userRepo, creditRepo, chrono.NewStandardTime(), logger)

	sweep := func() {
		n, err := creditSvc.SweepFree(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Sweep failed")
			return
		}
		logger.Info().Int64("users_reset", n).Msg("Sweep complete")
	}

	if *once {
		sweep()
		return
	}

	scheduler := keepalive.NewStandardScheduler(logger)
	if err := scheduler.Schedule(cfg.SweepSchedule, sweep); err != nil {
		logger.Fatal().Msgf("Failed to schedule sweep: %v", err)
	}
	scheduler.Start()
	logger.Info().Str("schedule", cfg.SweepSchedule).Msg("Sweeper started")

	<-ctx.Done()
	logger.Info().Msg("Shutdown signal received, exiting...")
	scheduler.Stop()
}
