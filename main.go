package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	appLogger "github.com/RezenkovD/TravelAiApi/app/logger"
	"github.com/RezenkovD/TravelAiApi/app/observability/metrics"
	"github.com/RezenkovD/TravelAiApi/app/tracer"
	"github.com/RezenkovD/TravelAiApi/config"
	"github.com/RezenkovD/TravelAiApi/internal/container"
)

const serviceName = "TravelAiApi"

func main() {
	if err := run(); err != nil {
		slog.Error("Application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// standard log until slog is configured
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	logger := appLogger.New(os.Stdout, cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	telemetry, err := tracer.InitTracingAndMetrics(serviceName, cfg.Mode)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	appMetrics, err := metrics.InitAppMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	c, err := container.NewContainer(ctx, &cfg, logger, appMetrics)
	if err != nil {
		return err
	}
	defer c.Close()

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", c.Router)

	errorLog := slog.NewLogLogger(logger.Handler(), slog.LevelError)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     errorLog,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", telemetry.MetricsHandler)
	metricsSrv := &http.Server{
		Addr:     ":" + cfg.Handlers.Prometheus.Port,
		Handler:  metricsMux,
		ErrorLog: errorLog,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range []struct {
		name string
		srv  *http.Server
	}{{"api", srv}, {"metrics", metricsSrv}} {
		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("server", s.name), slog.String("address", s.srv.Addr))
			if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", s.name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Application shut down complete.")
	return nil
}
