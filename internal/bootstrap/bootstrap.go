// Package bootstrap assembles the storage and rate provider selected by
// configuration. Both binaries share it.
package bootstrap

import (
	"context"
	"fmt"

	"multicurrency-wallet/config"
	"multicurrency-wallet/internal/adapter/fx"
	"multicurrency-wallet/internal/adapter/storage/memory"
	pgStorage "multicurrency-wallet/internal/adapter/storage/postgres"
	redisStorage "multicurrency-wallet/internal/adapter/storage/redis"
	"multicurrency-wallet/internal/core/ports"
	"multicurrency-wallet/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Storage is the persistence side of the engine.
type Storage struct {
	Wallets      ports.WalletRepository
	Transactions ports.TransactionRepository
	Transactor   ports.Transactor
	Health       ports.HealthChecker

	close func()
}

// Close releases the underlying connections.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects the configured storage driver. For postgres it runs
// the embedded migrations first when storage.auto_migrate is set.
func OpenStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		log.Warn().Msg("Using in-memory storage; data is lost on exit")
		return &Storage{
			Wallets:      store.Wallets(),
			Transactions: store.Transactions(),
			Transactor:   store,
			Health:       store,
		}, nil

	case config.DriverPostgres:
		if cfg.Storage.AutoMigrate {
			if err := pgStorage.Migrate(cfg.Database.DSN(), logger.Component(log, "migrate")); err != nil {
				return nil, err
			}
		}
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		transactor, db := pgStorage.NewTransactor(pool)
		return &Storage{
			Wallets:      pgStorage.NewWalletRepo(db),
			Transactions: pgStorage.NewTransactionRepo(db),
			Transactor:   transactor,
			Health:       pgStorage.NewHealthCheck(pool),
			close:        pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// NewRateProvider builds the configured provider. When rdb is non-nil and
// fx.cache_ttl is positive, lookups are cached in Redis.
func NewRateProvider(cfg config.FXConfig, rdb goredis.UniversalClient, log zerolog.Logger) (ports.RateProvider, error) {
	var provider ports.RateProvider
	switch cfg.Provider {
	case config.ProviderStatic:
		static, err := fx.NewStaticProvider(cfg.StaticRates)
		if err != nil {
			return nil, err
		}
		provider = static
	case config.ProviderFrankfurter:
		provider = fx.NewFrankfurterClient(cfg.BaseURL, cfg.Timeout, nil, logger.Component(log, "fx"))
	default:
		return nil, fmt.Errorf("unknown fx provider %q", cfg.Provider)
	}

	if rdb != nil && cfg.CacheTTL > 0 {
		provider = redisStorage.NewCachedRateProvider(provider, rdb, cfg.CacheTTL, logger.Component(log, "fx_cache"))
	}
	return provider, nil
}
