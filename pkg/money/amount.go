package money

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when text is not a plain decimal number or
// carries more fractional digits than the currency allows.
var ErrInvalidAmount = errors.New("invalid amount")

// decimalRe accepts an optional sign, integer digits and an optional fraction.
// Exponents, hex, NaN and Inf are rejected.
var decimalRe = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// MaxIntegerDigits is the most integer digits an amount may carry. Ledger
// columns are NUMERIC(20, 2).
const MaxIntegerDigits = 18

// amountLimit is the smallest magnitude with too many integer digits.
var amountLimit = decimal.New(1, MaxIntegerDigits)

// Amount is an exact decimal quantity held at a fixed scale.
type Amount struct {
	value decimal.Decimal
	scale int32
}

// ParseAmount builds an Amount for cur from its textual form.
// Sign is not checked here; callers decide whether zero or negative is allowed.
func ParseAmount(s string, cur Currency) (Amount, error) {
	if !decimalRe.MatchString(s) {
		return Amount{}, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	scale := cur.Scale()
	if -d.Exponent() > scale {
		return Amount{}, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmount, s, scale)
	}
	if d.Abs().GreaterThanOrEqual(amountLimit) {
		return Amount{}, fmt.Errorf("%w: %q has more than %d integer digits", ErrInvalidAmount, s, MaxIntegerDigits)
	}
	return Amount{value: d, scale: scale}, nil
}

// MustParse is ParseAmount for literals known to be valid.
func MustParse(s string, cur Currency) Amount {
	a, err := ParseAmount(s, cur)
	if err != nil {
		panic(err)
	}
	return a
}

// Zero returns a zero amount at the scale of cur.
func Zero(cur Currency) Amount {
	return Amount{value: decimal.Zero, scale: cur.Scale()}
}

// RoundHalfUp rounds value to scale fractional digits, ties away from zero.
// It is the only rounding step applied to money.
func RoundHalfUp(value decimal.Decimal, scale int32) decimal.Decimal {
	return value.Round(scale)
}

func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value), scale: max(a.scale, b.scale)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value.Sub(b.value), scale: max(a.scale, b.scale)}
}

// Convert multiplies a by rate and rounds half-up to the scale of to.
func (a Amount) Convert(rate Rate, to Currency) Amount {
	scale := to.Scale()
	return Amount{value: RoundHalfUp(a.value.Mul(rate.value), scale), scale: scale}
}

func (a Amount) Cmp(b Amount) int {
	return a.value.Cmp(b.value)
}

func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

func (a Amount) GreaterThan(b Amount) bool {
	return a.value.GreaterThan(b.value)
}

// InRange returns true if a can be stored, i.e. has at most
// MaxIntegerDigits integer digits.
func (a Amount) InRange() bool {
	return a.value.Abs().LessThan(amountLimit)
}

func (a Amount) IsPositive() bool { return a.value.IsPositive() }
func (a Amount) IsNegative() bool { return a.value.IsNegative() }
func (a Amount) IsZero() bool     { return a.value.IsZero() }

// Decimal exposes the underlying value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// String renders the canonical fixed-scale form, e.g. "100.00".
func (a Amount) String() string {
	return a.value.StringFixed(a.scale)
}

// MarshalJSON encodes the amount as a quoted decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}
