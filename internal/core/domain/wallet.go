package domain

import (
	"time"

	"multicurrency-wallet/pkg/money"

	"github.com/google/uuid"
)

// WalletStatus represents the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusActive WalletStatus = "ACTIVE"
	WalletStatusFrozen WalletStatus = "FROZEN"
	WalletStatusClosed WalletStatus = "CLOSED"
)

// IsTerminal returns true once no further transition is possible.
func (s WalletStatus) IsTerminal() bool {
	return s == WalletStatusClosed
}

// Wallet is a single-currency account. It is the aggregate root for its
// ledger entries.
type Wallet struct {
	ID        uuid.UUID      `json:"id"`
	Currency  money.Currency `json:"currency"`
	Balance   money.Amount   `json:"balance"`
	Status    WalletStatus   `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewWallet returns an ACTIVE wallet with a zero balance.
func NewWallet(id uuid.UUID, currency money.Currency, now time.Time) Wallet {
	return Wallet{
		ID:        id,
		Currency:  currency,
		Balance:   money.Zero(currency),
		Status:    WalletStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive returns true if the wallet accepts balance mutations.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}
