package money

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidCurrency is returned for codes outside the supported table.
var ErrInvalidCurrency = errors.New("unsupported currency")

// Currency is an ISO 4217 alphabetic code.
type Currency string

const (
	DKK Currency = "DKK"
	EUR Currency = "EUR"
	USD Currency = "USD"
)

// CurrencyInfo describes a supported currency.
type CurrencyInfo struct {
	Code  Currency `json:"code"`
	Name  string   `json:"name"`
	Scale int32    `json:"scale"`
}

// currencies is the closed set of supported currencies. Adding an entry here
// is all it takes to support a new one.
var currencies = map[Currency]CurrencyInfo{
	DKK: {Code: DKK, Name: "Danish krone", Scale: 2},
	EUR: {Code: EUR, Name: "Euro", Scale: 2},
	USD: {Code: USD, Name: "US dollar", Scale: 2},
}

// ParseCurrency normalizes and validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsSupported() {
		return "", ErrInvalidCurrency
	}
	return c, nil
}

// IsSupported reports whether c is in the supported table.
func (c Currency) IsSupported() bool {
	_, ok := currencies[c]
	return ok
}

// Scale returns the number of fractional digits used for c.
// Unsupported currencies report a scale of 2.
func (c Currency) Scale() int32 {
	if info, ok := currencies[c]; ok {
		return info.Scale
	}
	return 2
}

func (c Currency) String() string {
	return string(c)
}

// Currencies returns the supported table ordered by code.
func Currencies() []CurrencyInfo {
	out := make([]CurrencyInfo, 0, len(currencies))
	for _, info := range currencies {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
