package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrAmountType is returned when an amount is neither a JSON string nor a
// JSON number.
var ErrAmountType = errors.New("amount must be a decimal string or number")

// AmountText is a decimal amount exactly as the client sent it. JSON numbers
// keep their literal text so nothing passes through float64.
type AmountText string

func (a *AmountText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountText(strings.TrimSpace(s))
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*a = AmountText(data)
	default:
		return ErrAmountType
	}
	return nil
}

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	Currency string `json:"currency" binding:"required,currency"`
}

// MovementRequest is the request body for deposits and withdrawals.
type MovementRequest struct {
	Amount   AmountText `json:"amount" binding:"required"`
	Currency string     `json:"currency" binding:"required,currency"`
}

// ExchangeRequest is the request body for exchanges. Amount is in the
// source wallet's currency.
type ExchangeRequest struct {
	SourceWalletID string     `json:"source_wallet_id" binding:"required,uuid"`
	TargetWalletID string     `json:"target_wallet_id" binding:"required,uuid"`
	Amount         AmountText `json:"amount" binding:"required"`
}

// WalletResponse is the wire form of a wallet. Money is always a string.
type WalletResponse struct {
	ID        string `json:"id"`
	Currency  string `json:"currency"`
	Balance   string `json:"balance"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TransactionResponse is the wire form of a ledger entry.
type TransactionResponse struct {
	ID                       string  `json:"id"`
	WalletID                 string  `json:"wallet_id"`
	CounterpartyWalletID     *string `json:"counterparty_wallet_id,omitempty"`
	Type                     string  `json:"type"`
	Amount                   string  `json:"amount"`
	Currency                 string  `json:"currency"`
	CreditedAmount           *string `json:"credited_amount,omitempty"`
	CreditedCurrency         *string `json:"credited_currency,omitempty"`
	Rate                     *string `json:"rate,omitempty"`
	BalanceAfter             *string `json:"balance_after,omitempty"`
	CounterpartyBalanceAfter *string `json:"counterparty_balance_after,omitempty"`
	Status                   string  `json:"status"`
	ErrorCode                *string `json:"error_code,omitempty"`
	CreatedAt                string  `json:"created_at"`
}

// OperationResponse is returned by deposit, withdraw and lifecycle
// operations, whether they completed or failed.
type OperationResponse struct {
	Wallet      WalletResponse      `json:"wallet"`
	Transaction TransactionResponse `json:"transaction"`
}

// ExchangeResponse is returned by exchanges.
type ExchangeResponse struct {
	SourceWallet WalletResponse      `json:"source_wallet"`
	TargetWallet WalletResponse      `json:"target_wallet"`
	Transaction  TransactionResponse `json:"transaction"`
}

// CurrencyResponse describes a supported currency.
type CurrencyResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Scale int32  `json:"scale"`
}
