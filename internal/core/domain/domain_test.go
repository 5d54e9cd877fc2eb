package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWallet_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status WalletStatus
		want   bool
	}{
		{"active", WalletStatusActive, true},
		{"frozen", WalletStatusFrozen, false},
		{"closed", WalletStatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wallet{Status: tt.status}
			assert.Equal(t, tt.want, w.IsActive())
		})
	}
}

func TestWalletStatus_IsTerminal(t *testing.T) {
	assert.False(t, WalletStatusActive.IsTerminal())
	assert.False(t, WalletStatusFrozen.IsTerminal())
	assert.True(t, WalletStatusClosed.IsTerminal())
}

func TestNewWallet(t *testing.T) {
	w := NewWallet(uuid.New(), "DKK", fixedNow)
	assert.Equal(t, WalletStatusActive, w.Status)
	assert.Equal(t, "0.00", w.Balance.String())
	assert.Equal(t, fixedNow, w.CreatedAt)
	assert.Equal(t, fixedNow, w.UpdatedAt)
}

func TestTransaction_Involves(t *testing.T) {
	owner, other, stranger := uuid.New(), uuid.New(), uuid.New()
	tx := &Transaction{WalletID: owner, CounterpartyWalletID: &other}

	assert.True(t, tx.Involves(owner))
	assert.True(t, tx.Involves(other))
	assert.False(t, tx.Involves(stranger))
	assert.False(t, (&Transaction{WalletID: owner}).Involves(other))
}

func TestTransactionType_IsLifecycle(t *testing.T) {
	tests := []struct {
		typ  TransactionType
		want bool
	}{
		{TransactionTypeDeposit, false},
		{TransactionTypeWithdraw, false},
		{TransactionTypeExchange, false},
		{TransactionTypeFreeze, true},
		{TransactionTypeUnfreeze, true},
		{TransactionTypeClose, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.IsLifecycle())
		})
	}
}

func TestErrorCode_IsExternal(t *testing.T) {
	assert.True(t, ErrCodeRateUnavailable.IsExternal())
	assert.True(t, ErrCodeRateParseError.IsExternal())
	assert.False(t, ErrCodeInsufficientFunds.IsExternal())
	assert.False(t, ErrCodeWalletClosed.IsExternal())
}

func TestErrorCode_Message(t *testing.T) {
	assert.Equal(t, "Insufficient funds", ErrCodeInsufficientFunds.Message())
	assert.Equal(t, "SOMETHING_ELSE", ErrorCode("SOMETHING_ELSE").Message())
}

func TestRateErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeRateParseError, RateErrorCode(fmt.Errorf("decode: %w", ErrRateParse)))
	assert.Equal(t, ErrCodeRateUnavailable, RateErrorCode(fmt.Errorf("get: %w", ErrRateUnavailable)))
	assert.Equal(t, ErrCodeRateUnavailable, RateErrorCode(errors.New("boom")))
}

func TestTransactionStatus_Constants(t *testing.T) {
	assert.Equal(t, TransactionStatus("COMPLETED"), TransactionStatusCompleted)
	assert.Equal(t, TransactionStatus("FAILED"), TransactionStatusFailed)
}
