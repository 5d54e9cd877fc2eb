package domain

import "errors"

// ErrorCode is the stable machine-readable reason recorded on a FAILED entry.
type ErrorCode string

const (
	ErrCodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	ErrCodeCurrencyMismatch  ErrorCode = "CURRENCY_MISMATCH"
	ErrCodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeWalletNotActive   ErrorCode = "WALLET_NOT_ACTIVE"
	ErrCodeSameWallet        ErrorCode = "SAME_WALLET"
	ErrCodeSameCurrency      ErrorCode = "SAME_CURRENCY"
	ErrCodeWalletNotEmpty    ErrorCode = "WALLET_NOT_EMPTY"
	ErrCodeWalletClosed      ErrorCode = "WALLET_CLOSED"
	ErrCodeRateUnavailable   ErrorCode = "RATE_UNAVAILABLE"
	ErrCodeRateParseError    ErrorCode = "RATE_PARSE_ERROR"
)

// IsExternal returns true for failures caused by the rate provider rather
// than by the request. Retrying those may succeed.
func (c ErrorCode) IsExternal() bool {
	return c == ErrCodeRateUnavailable || c == ErrCodeRateParseError
}

// Message returns a human-readable description of the code.
func (c ErrorCode) Message() string {
	switch c {
	case ErrCodeInvalidAmount:
		return "Amount must be greater than zero"
	case ErrCodeCurrencyMismatch:
		return "Currency does not match wallet currency"
	case ErrCodeInsufficientFunds:
		return "Insufficient funds"
	case ErrCodeWalletNotActive:
		return "Wallet is not active"
	case ErrCodeSameWallet:
		return "Source and target wallet must differ"
	case ErrCodeSameCurrency:
		return "Source and target wallet currencies must differ"
	case ErrCodeWalletNotEmpty:
		return "Wallet balance must be zero to close"
	case ErrCodeWalletClosed:
		return "Wallet is closed"
	case ErrCodeRateUnavailable:
		return "Exchange rate service unavailable"
	case ErrCodeRateParseError:
		return "Exchange rate response could not be parsed"
	}
	return string(c)
}

// Rate provider failures. Implementations wrap one of these.
var (
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	ErrRateParse       = errors.New("exchange rate parse error")
)

// RateErrorCode classifies a rate provider error. Unknown errors count as
// unavailability.
func RateErrorCode(err error) ErrorCode {
	if errors.Is(err, ErrRateParse) {
		return ErrCodeRateParseError
	}
	return ErrCodeRateUnavailable
}
