package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Client input (rejected before any rule runs, nothing recorded) ----

func ErrInvalidAmount(err error) *AppError {
	return Wrap("INVALID_AMOUNT", "Amount must be a decimal number with at most 2 fractional digits", http.StatusBadRequest, err)
}

func ErrInvalidCurrency(code string) *AppError {
	return New("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", code), http.StatusBadRequest)
}

// Validation reports a malformed or incomplete request body.
func Validation(message string) *AppError {
	return New("VALIDATION_ERROR", message, http.StatusBadRequest)
}

// ---- Lookup ----

func ErrWalletNotFound() *AppError {
	return New("WALLET_NOT_FOUND", "Wallet not found", http.StatusNotFound)
}

// ---- Recorded failures (a FAILED ledger entry exists) ----

// Rejection describes an operation that was attempted and recorded as
// FAILED. Business rejections map to 422; failures of an upstream
// dependency map to 502 so callers know a retry may help.
func Rejection(code, message string, external bool) *AppError {
	status := http.StatusUnprocessableEntity
	if external {
		status = http.StatusBadGateway
	}
	return New(code, message, status)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
