package domain

import (
	"time"

	"multicurrency-wallet/pkg/money"

	"github.com/google/uuid"
)

// TransactionType represents the kind of operation a ledger entry records.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeExchange TransactionType = "EXCHANGE"
	TransactionTypeFreeze   TransactionType = "FREEZE"
	TransactionTypeUnfreeze TransactionType = "UNFREEZE"
	TransactionTypeClose    TransactionType = "CLOSE"
)

// IsLifecycle returns true for status-change entries.
func (t TransactionType) IsLifecycle() bool {
	return t == TransactionTypeFreeze || t == TransactionTypeUnfreeze || t == TransactionTypeClose
}

// TransactionStatus represents the outcome recorded by a ledger entry.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is an immutable ledger entry. One is written for every
// attempted operation, whatever its outcome.
//
// An exchange is a single entry owned by the source wallet: Amount/Currency
// is the debited leg, CreditedAmount/CreditedCurrency the credited one.
type Transaction struct {
	ID                       uuid.UUID         `json:"id"`
	WalletID                 uuid.UUID         `json:"wallet_id"`
	CounterpartyWalletID     *uuid.UUID        `json:"counterparty_wallet_id,omitempty"`
	Type                     TransactionType   `json:"type"`
	Amount                   money.Amount      `json:"amount"`
	Currency                 money.Currency    `json:"currency"`
	CreditedAmount           *money.Amount     `json:"credited_amount,omitempty"`
	CreditedCurrency         *money.Currency   `json:"credited_currency,omitempty"`
	Rate                     *money.Rate       `json:"rate,omitempty"`
	BalanceAfter             *money.Amount     `json:"balance_after,omitempty"`
	CounterpartyBalanceAfter *money.Amount     `json:"counterparty_balance_after,omitempty"`
	Status                   TransactionStatus `json:"status"`
	ErrorCode                ErrorCode         `json:"error_code,omitempty"`
	CreatedAt                time.Time         `json:"created_at"`
}

// IsFailed returns true if the entry records a rejected attempt.
func (t *Transaction) IsFailed() bool {
	return t.Status == TransactionStatusFailed
}

// Involves returns true if walletID is either side of the entry.
func (t *Transaction) Involves(walletID uuid.UUID) bool {
	if t.WalletID == walletID {
		return true
	}
	return t.CounterpartyWalletID != nil && *t.CounterpartyWalletID == walletID
}
