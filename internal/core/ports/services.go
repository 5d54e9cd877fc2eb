package ports

import (
	"context"
	"time"

	"multicurrency-wallet/internal/core/domain"
	"multicurrency-wallet/pkg/money"

	"github.com/google/uuid"
)

// RateProvider looks up exchange rates. Errors wrap domain.ErrRateUnavailable
// or domain.ErrRateParse.
type RateProvider interface {
	GetRate(ctx context.Context, base, quote money.Currency) (money.Rate, error)
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate-limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp when the window resets
}

// --- Service Ports (Business Logic) ---

// WalletService is the wallet transaction engine.
//
// Operations that reach a wallet return an OperationResult even when the
// operation is rejected; inspect Transaction.Status. Errors are reserved for
// invalid input, unknown wallets and storage faults.
type WalletService interface {
	CreateWallet(ctx context.Context, currency money.Currency) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)

	Deposit(ctx context.Context, req MovementRequest) (*OperationResult, error)
	Withdraw(ctx context.Context, req MovementRequest) (*OperationResult, error)
	Exchange(ctx context.Context, req ExchangeRequest) (*OperationResult, error)

	Freeze(ctx context.Context, walletID uuid.UUID) (*OperationResult, error)
	Unfreeze(ctx context.Context, walletID uuid.UUID) (*OperationResult, error)
	Close(ctx context.Context, walletID uuid.UUID) (*OperationResult, error)
}

// MovementRequest holds input for a deposit or withdrawal. Amount is the raw
// decimal text from the client.
type MovementRequest struct {
	WalletID uuid.UUID
	Amount   string
	Currency money.Currency
}

// ExchangeRequest holds input for an exchange. Amount is in the source
// wallet's currency.
type ExchangeRequest struct {
	SourceWalletID uuid.UUID
	TargetWalletID uuid.UUID
	Amount         string
}

// OperationResult is the recorded outcome of one operation.
type OperationResult struct {
	Wallet       *domain.Wallet
	Counterparty *domain.Wallet
	Transaction  *domain.Transaction
}

// Failed returns true if the operation was rejected.
func (r *OperationResult) Failed() bool {
	return r.Transaction != nil && r.Transaction.IsFailed()
}

// HealthChecker checks external dependency health.
type HealthChecker interface {
	// Ping verifies connectivity. Returns nil if healthy.
	Ping(ctx context.Context) error
	// Name returns the dependency name (e.g., "postgresql", "redis").
	Name() string
}
