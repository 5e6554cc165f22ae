package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/justclara/onboarding_services/internal/onboarding_service/adapters/events"
	"github.com/justclara/onboarding_services/internal/onboarding_service/app"
	"github.com/justclara/onboarding_services/internal/onboarding_service/bootstrap"
	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
	"github.com/justclara/onboarding_services/internal/onboarding_service/repository/memory"
	"github.com/justclara/onboarding_services/internal/onboarding_service/repository/postgres"
	redisstore "github.com/justclara/onboarding_services/internal/onboarding_service/repository/redis"
	adapter_http "github.com/justclara/onboarding_services/internal/onboarding_service/transport/http"
	"github.com/justclara/onboarding_services/internal/platform/config"
	"github.com/justclara/onboarding_services/internal/platform/database"
	"github.com/justclara/onboarding_services/internal/platform/logger"
	"github.com/justclara/onboarding_services/internal/platform/messagebroker"
)

const serviceName = "onboarding-service"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err := cfg.Validate(); err != nil {
		appLogger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Onboarding service starting...", "port", cfg.OnboardingServicePort, "run_store", cfg.RunStore)

	ctx := context.Background()

	var repo domain.ProvisioningRepository
	if cfg.PostgresDSN != "" {
		dbPool, err := database.NewDBPool(ctx, cfg.PostgresDSN, database.PoolOptions{})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		repo = postgres.NewPgProvisioningRepository(dbPool, appLogger)
		appLogger.Info("Successfully connected to PostgreSQL database")
	} else {
		appLogger.Warn("POSTGRES_DSN not set; provisioning records will not be persisted")
	}

	var runEvents domain.RunEventPublisher
	if cfg.NATSUrl != "" {
		natsClient, err := messagebroker.NewNatsClient(cfg.NATSUrl, serviceName, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		runEvents = events.NewRunEventPublisher(natsClient, appLogger)
		appLogger.Info("Successfully connected to NATS")
	}

	var store domain.RunStore
	switch cfg.RunStore {
	case "redis":
		rdb, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLogger.Error("Failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		store = redisstore.NewRunStore(rdb, redisstore.WithTTL(cfg.RunStatusTTL()))
		appLogger.Info("Run status stored in Redis", "addr", cfg.RedisAddr)
	default:
		store = memory.NewRunStore()
	}

	pipeline, err := bootstrap.NewPipeline(cfg, repo, appLogger)
	if err != nil {
		appLogger.Error("Failed to build provisioning pipeline", "error", err)
		os.Exit(1)
	}

	svc := app.NewOnboardingService(pipeline, store, runEvents, app.ServiceOptions{
		MaxConcurrentRuns: cfg.MaxConcurrentRuns,
		RunTimeout:        cfg.RunTimeout(),
	}, appLogger)

	handler := adapter_http.NewOnboardingHandler(svc, appLogger, validator.New())
	router := adapter_http.NewRouter(handler, adapter_http.RouterConfig{
		JWTSecret:         cfg.APIJWTSecret,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
	}, appLogger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.OnboardingServicePort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info(fmt.Sprintf("Onboarding HTTP server listening on port %d", cfg.OnboardingServicePort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to serve", "error", err)
			os.Exit(1)
		}
	}()

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quitChan
	appLogger.Info("Shutdown signal received", "signal", receivedSignal.String())

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	}

	// In-flight runs keep their own deadline; wait for them so no run is left pending.
	appLogger.Info("Waiting for in-flight provisioning runs...")
	if err := svc.Wait(); err != nil {
		appLogger.Error("Provisioning worker group returned an error", "error", err)
	}
	appLogger.Info("Onboarding service shut down successfully.")
}
