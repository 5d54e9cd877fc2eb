package ports

import (
	"context"

	"multicurrency-wallet/internal/core/domain"

	"github.com/google/uuid"
)

// WalletRepository defines persistence operations for wallets.
// Get and List return nil without error when nothing matches.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	// It must be called inside Transactor.WithinTransaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	List(ctx context.Context) ([]domain.Wallet, error)
	Update(ctx context.Context, wallet *domain.Wallet) error
}

// TransactionRepository defines persistence operations for ledger entries.
// Entries are append-only.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// ListByWallet returns every entry that involves walletID, either as owner
	// or as exchange counterparty, oldest first.
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
}

// Transactor runs fn inside one storage transaction. Repository calls made
// with the context passed to fn join that transaction. A non-nil error from
// fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
