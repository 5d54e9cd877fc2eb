package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"multicurrency-wallet/config"
	httpHandler "multicurrency-wallet/internal/adapter/http/handler"
	redisStorage "multicurrency-wallet/internal/adapter/storage/redis"
	"multicurrency-wallet/internal/bootstrap"
	"multicurrency-wallet/internal/core/ports"
	"multicurrency-wallet/internal/service"
	"multicurrency-wallet/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load(os.Getenv("WALLET_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Str("fx_provider", cfg.FX.Provider).
		Msg("Starting multi-currency wallet")

	ctx := context.Background()

	storage, err := bootstrap.OpenStorage(ctx, cfg, logger.Component(log, "storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer storage.Close()

	healthCheckers := []ports.HealthChecker{storage.Health}

	// Redis is optional: without it there is no rate limiting and no rate cache.
	var rdb goredis.UniversalClient
	var rateLimitStore ports.RateLimitStore
	if cfg.Redis.Enabled {
		client, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer client.Close()
		rdb = client
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(client))
		if cfg.RateLimit.Enabled {
			rateLimitStore = redisStorage.NewRateLimitStore(client)
		}
	}

	rates, err := bootstrap.NewRateProvider(cfg.FX, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate provider")
	}

	walletSvc := service.NewWalletService(
		storage.Wallets,
		storage.Transactions,
		storage.Transactor,
		rates,
		logger.Component(log, "wallet_service"),
	)

	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Mode:           cfg.Server.Mode,
		Logger:         logger.Component(log, "http"),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
