package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"coldopen/internal/api/v1/handler"
	"coldopen/internal/chrono"
	"coldopen/internal/config"
	"coldopen/internal/llm"
	"coldopen/internal/middleware"
	"coldopen/internal/migrations"
	"coldopen/internal/repository"
	"coldopen/internal/service"
	"coldopen/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the whole API: database, migrations, LLM gateway, services,
// handlers and middleware. The returned pool must be closed on shutdown.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, sessions *session.Manager) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// 1. Prepare the DSN.
	dsn := cfg.DSN()

	// 2. Run migrations over a short-lived database/sql connection; goose
	// wants one, the repositories don't.
	migrationDB, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open DB connection for migrations")
		return nil, nil, err
	}
	if err := migrations.Run(ctx, migrationDB); err != nil {
		migrationDB.Close()
		logger.Error().Err(err).Msg("Failed to run migrations")
		return nil, nil, err
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close migration connection")
	}

	// 3. Open the connection pool the repositories use.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create connection pool")
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error().Err(err).Msg("Failed to ping DB")
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 4. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 5. Initialize the LLM gateway. The API key comes from the environment
	// or from Secret Manager, never from a request.
	apiKey, err := service.ResolveLLMAPIKey(ctx, cfg)
	if err != nil {
		pool.Close()
		logger.Error().Err(err).Msg("Failed to resolve LLM API key")
		return nil, nil, err
	}
	gateway := llm.NewClient(cfg.LLMBaseURL, apiKey, time.Duration(cfg.LLMTimeoutSec)*time.Second, logger)

	// 6. Initialize repositories & services & handlers
	clock := chrono.NewStandardTime()

	userRepo := repository.NewUserRepo(pool)
	creditRepo := repository.NewCreditRepo(pool)
	historyRepo := repository.NewHistoryRepo(pool)

	userSvc := service.NewUserService(userRepo, logger)
	creditSvc := service.NewCreditService(userRepo, creditRepo, clock, logger)
	historySvc := service.NewHistoryService(userRepo, historyRepo, clock, logger)
	models := service.ModelSet{Analysis: cfg.AnalysisModel, Generation: cfg.GenerationModel}
	generationSvc := service.NewGenerationService(userRepo, creditSvc, gateway, sessions, models, clock, logger)

	userHandler := handler.NewUserHandler(userSvc, creditSvc)
	settingsHandler := handler.NewSettingsHandler(userSvc, validate)
	generateHandler := handler.NewGenerateHandler(generationSvc, sessions, validate)
	creditsHandler := handler.NewCreditsHandler(creditSvc)
	historyHandler := handler.NewHistoryHandler(historySvc, validate)

	// 7. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	// 8. Create ServeMux router
	mux := http.NewServeMux()

	// Create a subrouter for API v1 with the /v1 prefix
	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	settingsHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	generateHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	creditsHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	historyHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// 9. Apply CORS middleware. The extension popup calls from a
	// chrome-extension:// origin, so the browser sends real CORS preflights.
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), pool, nil
}
