package fx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"multicurrency-wallet/internal/adapter/fx"
	"multicurrency-wallet/internal/core/domain"
	"multicurrency-wallet/internal/core/ports"
	"multicurrency-wallet/pkg/money"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.RateProvider = (*fx.FrankfurterClient)(nil)
	_ ports.RateProvider = (*fx.StaticProvider)(nil)
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "DKK", r.URL.Query().Get("base"))
		assert.Equal(t, "USD", r.URL.Query().Get("symbols"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFrankfurterClient_GetRate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{
			name:   "ok",
			status: http.StatusOK,
			body:   `{"amount":1.0,"base":"DKK","date":"2026-03-02","rates":{"USD":0.14523}}`,
			want:   "0.14523",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"message":"boom"}`,
			wantErr: domain.ErrRateUnavailable,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"message":"not found"}`,
			wantErr: domain.ErrRateUnavailable,
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"rates":`,
			wantErr: domain.ErrRateParse,
		},
		{
			name:    "missing quote",
			status:  http.StatusOK,
			body:    `{"base":"DKK","rates":{"EUR":0.134}}`,
			wantErr: domain.ErrRateParse,
		},
		{
			name:    "zero rate",
			status:  http.StatusOK,
			body:    `{"base":"DKK","rates":{"USD":0}}`,
			wantErr: domain.ErrRateParse,
		},
		{
			name:    "rate finer than the ledger stores",
			status:  http.StatusOK,
			body:    `{"base":"DKK","rates":{"USD":0.123456789012345}}`,
			wantErr: domain.ErrRateParse,
		},
		{
			name:    "string rate",
			status:  http.StatusOK,
			body:    `{"base":"DKK","rates":{"USD":"abc"}}`,
			wantErr: domain.ErrRateParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body)
			client := fx.NewFrankfurterClient(srv.URL+"/", time.Second, nil, zerolog.Nop())

			rate, err := client.GetRate(context.Background(), money.DKK, money.USD)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rate.String())
		})
	}
}

func TestFrankfurterClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	client := fx.NewFrankfurterClient(srv.URL, 20*time.Millisecond, nil, zerolog.Nop())
	_, err := client.GetRate(context.Background(), money.DKK, money.USD)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)
}

func TestFrankfurterClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client := fx.NewFrankfurterClient(addr, time.Second, nil, zerolog.Nop())
	_, err := client.GetRate(context.Background(), money.EUR, money.USD)
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)
}

func TestFrankfurterClient_SameCurrencySkipsNetwork(t *testing.T) {
	client := fx.NewFrankfurterClient("http://127.0.0.1:1", time.Second, nil, zerolog.Nop())
	rate, err := client.GetRate(context.Background(), money.EUR, money.EUR)
	require.NoError(t, err)
	assert.Equal(t, "1", rate.String())
}

func TestStaticProvider(t *testing.T) {
	p, err := fx.NewStaticProvider(map[string]string{
		"dkk-usd": "0.15",
		"USD-EUR": " 0.92 ",
	})
	require.NoError(t, err)

	rate, err := p.GetRate(context.Background(), money.DKK, money.USD)
	require.NoError(t, err)
	assert.Equal(t, "0.15", rate.String())

	rate, err = p.GetRate(context.Background(), money.USD, money.EUR)
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())

	_, err = p.GetRate(context.Background(), money.USD, money.DKK)
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)
}

func TestNewStaticProvider_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"no separator":   {"DKKUSD": "0.15"},
		"unknown base":   {"GBP-USD": "1.2"},
		"unknown quote":  {"DKK-JPY": "21"},
		"zero rate":      {"DKK-USD": "0"},
		"malformed rate": {"DKK-USD": "x"},
	}
	for name, table := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := fx.NewStaticProvider(table)
			assert.Error(t, err)
		})
	}
}
