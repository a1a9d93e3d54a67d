package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/RezenkovD/TravelAiApi/app/db"
	"github.com/RezenkovD/TravelAiApi/app/observability/metrics"
	"github.com/RezenkovD/TravelAiApi/config"
	generativeAI "github.com/RezenkovD/TravelAiApi/internal/api/generative_ai"
	"github.com/RezenkovD/TravelAiApi/internal/api/recommendation"
	"github.com/RezenkovD/TravelAiApi/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config                *config.Config
	Logger                *slog.Logger
	Pool                  *pgxpool.Pool
	ModelClient           generativeAI.PlaceModelClient
	RecommendationService recommendation.Service
	RecommendationHandler *recommendation.HandlerImpl
	Router                http.Handler
}

// NewContainer migrates the database, opens the pool and wires the
// recommendation stack on top of it.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.AppMetrics) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}

	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return nil, err
	}

	pool, err := database.Init(ctx, dbConfig, logger)
	if err != nil {
		return nil, err
	}
	if !database.WaitForDB(ctx, pool, logger) {
		pool.Close()
		return nil, fmt.Errorf("database not ready")
	}

	client, err := generativeAI.NewPlaceModelClient(ctx, cfg.LLM, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("model client: %w", err)
	}

	c := Wire(cfg, logger, pool, client, m)
	c.Pool = pool
	return c, nil
}

// Wire builds store, service, handler and router from already opened
// resources.
func Wire(cfg *config.Config, logger *slog.Logger, pool recommendation.DBPool, client generativeAI.PlaceModelClient, m *metrics.AppMetrics) *Container {
	var repo recommendation.Repository = recommendation.NewRepository(pool, m, logger)
	if cfg.Cache.TTL > 0 {
		repo = recommendation.NewCachedRepository(repo, cfg.Cache.TTL, cfg.Cache.CleanupInterval, logger)
	}

	retry := recommendation.NewRetryPolicy(cfg.Retry.MaxAttempts, cfg.Retry.Wait, logger)
	service := recommendation.NewServiceImpl(repo, client, retry, m, logger)
	handler := recommendation.NewHandlerImpl(service, logger)

	return &Container{
		Config:                cfg,
		Logger:                logger,
		ModelClient:           client,
		RecommendationService: service,
		RecommendationHandler: handler,
		Router: router.SetupRouter(&router.Config{
			RecommendationHandler: handler,
			AllowedOrigins:        cfg.CORS.AllowedOrigins,
			RateLimitRequests:     cfg.RateLimit.Requests,
			RateLimitWindow:       cfg.RateLimit.Window,
		}),
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
