package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"integer", "100", "100.00", false},
		{"two decimals", "100.50", "100.50", false},
		{"one decimal", "0.5", "0.50", false},
		{"zero", "0", "0.00", false},
		{"negative", "-10.00", "-10.00", false},
		{"explicit plus", "+3.10", "3.10", false},
		{"too many fractional digits", "1.005", "", true},
		{"exponent", "1e3", "", true},
		{"empty", "", "", true},
		{"letters", "abc", "", true},
		{"trailing dot", "10.", "", true},
		{"leading dot", ".5", "", true},
		{"nan", "NaN", "", true},
		{"whitespace", " 10", "", true},
		{"largest storable", "999999999999999999.99", "999999999999999999.99", false},
		{"largest negative", "-999999999999999999.99", "-999999999999999999.99", false},
		{"too many integer digits", "1000000000000000000", "", true},
		{"far too large", "1000000000000000000000", "", true},
		{"too large negative", "-1000000000000000000.00", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAmount(tt.input, DKK)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func TestAmount_Arithmetic(t *testing.T) {
	a := MustParse("100.00", DKK)
	b := MustParse("0.01", DKK)

	assert.Equal(t, "100.01", a.Add(b).String())
	assert.Equal(t, "99.99", a.Sub(b).String())
	assert.True(t, a.Add(b).Sub(b).Equal(a))
	assert.Equal(t, 1, a.Cmp(b))
	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.Sub(a).IsNegative())
	assert.True(t, a.Sub(a).IsZero())
	assert.True(t, a.IsPositive())
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7.5", "7.50"},
		{"0.125", "0.13"},
		{"0.124999", "0.12"},
		{"2.675", "2.68"},
		{"-0.125", "-0.13"},
		{"0.005", "0.01"},
		{"0.0049", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := RoundHalfUp(decimal.RequireFromString(tt.in), 2)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestAmount_Convert(t *testing.T) {
	tests := []struct {
		amount string
		rate   string
		want   string
	}{
		{"50.00", "0.15", "7.50"},
		{"100.00", "0.134", "13.40"},
		{"0.01", "0.5", "0.01"},
		{"0.01", "0.49", "0.00"},
		{"33.33", "1.0001", "33.33"},
		{"1.00", "7.4605", "7.46"},
	}
	for _, tt := range tests {
		t.Run(tt.amount+"x"+tt.rate, func(t *testing.T) {
			got := MustParse(tt.amount, DKK).Convert(MustParseRate(tt.rate), USD)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseRate(t *testing.T) {
	r, err := ParseRate("0.15")
	require.NoError(t, err)
	assert.Equal(t, "0.15", r.String())

	r, err = ParseRate("0.1234567891")
	require.NoError(t, err)
	assert.Equal(t, "0.1234567891", r.String())

	_, err = ParseRate("99999999999999.9999999999")
	require.NoError(t, err)

	for _, bad := range []string{"0", "-1.2", "", "1e-2", "x", "0.123456789012345", "100000000000000"} {
		_, err := ParseRate(bad)
		assert.ErrorIs(t, err, ErrInvalidRate, bad)
	}
}

func TestAmount_InRange(t *testing.T) {
	top := MustParse("999999999999999999.99", DKK)
	assert.True(t, top.InRange())
	assert.False(t, top.Add(MustParse("0.01", DKK)).InRange())
	assert.False(t, Zero(DKK).Sub(top).Sub(MustParse("0.01", DKK)).InRange())
	assert.True(t, MustParse("999999999999999999", DKK).Convert(MustParseRate("1"), USD).InRange())
	assert.False(t, MustParse("999999999999999999", DKK).Convert(MustParseRate("1.5"), USD).InRange())
}

func TestAmount_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Amount{"balance": MustParse("7.5", USD)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":"7.50"}`, string(data))
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("dkk")
	require.NoError(t, err)
	assert.Equal(t, DKK, c)

	_, err = ParseCurrency("GBP")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = ParseCurrency("")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestCurrencies_Sorted(t *testing.T) {
	list := Currencies()
	require.Len(t, list, 3)
	assert.Equal(t, DKK, list[0].Code)
	assert.Equal(t, EUR, list[1].Code)
	assert.Equal(t, USD, list[2].Code)
	for _, c := range list {
		assert.Equal(t, int32(2), c.Scale)
	}
}
