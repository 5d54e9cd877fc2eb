package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidRate is returned for rates that are malformed or not positive.
var ErrInvalidRate = errors.New("invalid exchange rate")

// Rate limits match the NUMERIC(24, 10) ledger column.
const (
	MaxRateScale         = 10
	MaxRateIntegerDigits = 14
)

var rateLimit = decimal.New(1, MaxRateIntegerDigits)

// Rate converts base amounts into quote amounts: quote = base × rate.
type Rate struct {
	value decimal.Decimal
}

// ParseRate parses a strictly positive decimal rate with at most
// MaxRateScale fractional digits.
func ParseRate(s string) (Rate, error) {
	if !decimalRe.MatchString(s) {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %v", ErrInvalidRate, err)
	}
	if !d.IsPositive() {
		return Rate{}, fmt.Errorf("%w: %q is not positive", ErrInvalidRate, s)
	}
	if -d.Exponent() > MaxRateScale {
		return Rate{}, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidRate, s, MaxRateScale)
	}
	if d.GreaterThanOrEqual(rateLimit) {
		return Rate{}, fmt.Errorf("%w: %q has more than %d integer digits", ErrInvalidRate, s, MaxRateIntegerDigits)
	}
	return Rate{value: d}, nil
}

// MustParseRate is ParseRate for literals known to be valid.
func MustParseRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rate) IsZero() bool { return r.value.IsZero() }

func (r Rate) String() string {
	return r.value.String()
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}
