package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WALLET_NOT_FOUND", "Wallet not found", http.StatusNotFound),
			expected: "[WALLET_NOT_FOUND] Wallet not found",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("X", "y", http.StatusBadRequest).Unwrap())
}

func TestConstructors(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"invalid amount", ErrInvalidAmount(cause), "INVALID_AMOUNT", http.StatusBadRequest},
		{"invalid currency", ErrInvalidCurrency("GBP"), "INVALID_CURRENCY", http.StatusBadRequest},
		{"validation", Validation("currency is required"), "VALIDATION_ERROR", http.StatusBadRequest},
		{"not found", ErrWalletNotFound(), "WALLET_NOT_FOUND", http.StatusNotFound},
		{"domain rejection", Rejection("INSUFFICIENT_FUNDS", "Insufficient funds", false), "INSUFFICIENT_FUNDS", http.StatusUnprocessableEntity},
		{"external failure", Rejection("RATE_UNAVAILABLE", "down", true), "RATE_UNAVAILABLE", http.StatusBadGateway},
		{"rate limit", ErrRateLimitExceeded(), "RATE_001", http.StatusTooManyRequests},
		{"database", ErrDatabaseError(cause), "SYS_001", http.StatusInternalServerError},
		{"internal", InternalError(cause), "SYS_001", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrInvalidCurrency_Message(t *testing.T) {
	assert.Equal(t, `Unsupported currency "GBP"`, ErrInvalidCurrency("GBP").Message)
}

func TestErrInvalidAmount_KeepsCause(t *testing.T) {
	cause := errors.New("bad digits")
	assert.ErrorIs(t, ErrInvalidAmount(cause), cause)
}
