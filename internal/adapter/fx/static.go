package fx

import (
	"context"
	"fmt"
	"strings"

	"multicurrency-wallet/internal/core/domain"
	"multicurrency-wallet/pkg/money"
)

type pair struct {
	base, quote money.Currency
}

// StaticProvider serves a fixed rate table. Used for offline runs and tests.
type StaticProvider struct {
	rates map[pair]money.Rate
}

// NewStaticProvider parses a table keyed "BASE-QUOTE". Keys are
// case-insensitive.
func NewStaticProvider(table map[string]string) (*StaticProvider, error) {
	rates := make(map[pair]money.Rate, len(table))
	for key, value := range table {
		b, q, ok := strings.Cut(key, "-")
		if !ok {
			return nil, fmt.Errorf("static rate %q: key must be BASE-QUOTE", key)
		}
		base, err := money.ParseCurrency(b)
		if err != nil {
			return nil, fmt.Errorf("static rate %q: %w", key, err)
		}
		quote, err := money.ParseCurrency(q)
		if err != nil {
			return nil, fmt.Errorf("static rate %q: %w", key, err)
		}
		rate, err := money.ParseRate(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("static rate %q: %w", key, err)
		}
		rates[pair{base, quote}] = rate
	}
	return &StaticProvider{rates: rates}, nil
}

func (p *StaticProvider) GetRate(_ context.Context, base, quote money.Currency) (money.Rate, error) {
	if base == quote {
		return money.MustParseRate("1"), nil
	}
	rate, ok := p.rates[pair{base, quote}]
	if !ok {
		return money.Rate{}, fmt.Errorf("%w: no static rate for %s-%s", domain.ErrRateUnavailable, base, quote)
	}
	return rate, nil
}
