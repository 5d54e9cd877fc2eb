// Command seed creates one wallet per supported currency and drives a few
// deposits and exchanges through the service, so a fresh database has
// something to look at.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"multicurrency-wallet/config"
	"multicurrency-wallet/internal/bootstrap"
	"multicurrency-wallet/internal/core/domain"
	"multicurrency-wallet/internal/core/ports"
	"multicurrency-wallet/internal/service"
	"multicurrency-wallet/pkg/logger"
	"multicurrency-wallet/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var deposits = map[money.Currency]string{
	money.DKK: "1000.00",
	money.EUR: "250.00",
	money.USD: "150.00",
}

func main() {
	configPath := flag.String("config", os.Getenv("WALLET_CONFIG"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg, logger.Component(log, "storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer storage.Close()

	// The seeder never talks to Redis.
	rates, err := bootstrap.NewRateProvider(cfg.FX, nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate provider")
	}

	svc := service.NewWalletService(storage.Wallets, storage.Transactions, storage.Transactor, rates, logger.Component(log, "wallet_service"))
	if err := seed(ctx, svc, log); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().Msg("Seeding complete")
}

func seed(ctx context.Context, svc ports.WalletService, log zerolog.Logger) error {
	ids := make(map[money.Currency]uuid.UUID)
	for _, info := range money.Currencies() {
		w, err := svc.CreateWallet(ctx, info.Code)
		if err != nil {
			return fmt.Errorf("create %s wallet: %w", info.Code, err)
		}
		ids[info.Code] = w.ID

		amount, ok := deposits[info.Code]
		if !ok {
			continue
		}
		res, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: w.ID, Amount: amount, Currency: info.Code})
		if err != nil {
			return fmt.Errorf("deposit into %s wallet: %w", info.Code, err)
		}
		if res.Failed() {
			return fmt.Errorf("deposit into %s wallet rejected: %s", info.Code, res.Transaction.ErrorCode)
		}
	}

	exchanges := []struct {
		from, to money.Currency
		amount   string
	}{
		{money.DKK, money.USD, "100.00"},
		{money.EUR, money.DKK, "20.00"},
	}
	for _, x := range exchanges {
		res, err := svc.Exchange(ctx, ports.ExchangeRequest{
			SourceWalletID: ids[x.from],
			TargetWalletID: ids[x.to],
			Amount:         x.amount,
		})
		if err != nil {
			return fmt.Errorf("exchange %s->%s: %w", x.from, x.to, err)
		}
		// A provider outage is recorded but not fatal for demo data.
		if res.Failed() && !res.Transaction.ErrorCode.IsExternal() {
			return fmt.Errorf("exchange %s->%s rejected: %s", x.from, x.to, res.Transaction.ErrorCode)
		}
		logExchange(log, res.Transaction)
	}
	return nil
}

func logExchange(log zerolog.Logger, tx *domain.Transaction) {
	ev := log.Info().Str("tx_id", tx.ID.String()).Str("status", string(tx.Status))
	if tx.CreditedAmount != nil {
		ev = ev.Str("credited", tx.CreditedAmount.String())
	}
	ev.Msg("seed exchange")
}
