package service

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"testing"

	"multicurrency-wallet/internal/adapter/fx"
	"multicurrency-wallet/internal/adapter/storage/memory"
	"multicurrency-wallet/internal/core/domain"
	"multicurrency-wallet/internal/core/ports"
	"multicurrency-wallet/pkg/apperror"
	"multicurrency-wallet/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEngine wires the service over the in-memory store and a fixed rate table.
func newEngine(t *testing.T) (*WalletServiceImpl, *memory.Store) {
	t.Helper()
	rates, err := fx.NewStaticProvider(map[string]string{
		"DKK-USD": "0.15",
		"USD-DKK": "6.6667",
		"DKK-EUR": "0.134",
		"EUR-DKK": "7.46",
		"EUR-USD": "1.085",
		"USD-EUR": "0.9217",
	})
	require.NoError(t, err)

	store := memory.NewStore()
	return NewWalletService(store.Wallets(), store.Transactions(), store, rates, zerolog.Nop()), store
}

func mustCreate(t *testing.T, svc *WalletServiceImpl, cur money.Currency) uuid.UUID {
	t.Helper()
	w, err := svc.CreateWallet(context.Background(), cur)
	require.NoError(t, err)
	return w.ID
}

func balanceOf(t *testing.T, svc *WalletServiceImpl, id uuid.UUID) string {
	t.Helper()
	w, err := svc.GetWallet(context.Background(), id)
	require.NoError(t, err)
	return w.Balance.String()
}

func ledgerLen(t *testing.T, svc *WalletServiceImpl, id uuid.UUID) int {
	t.Helper()
	txs, err := svc.ListTransactions(context.Background(), id)
	require.NoError(t, err)
	return len(txs)
}

func TestEngine_Scenario(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()

	dkk := mustCreate(t, svc, money.DKK)
	usd := mustCreate(t, svc, money.USD)
	assert.Equal(t, "0.00", balanceOf(t, svc, dkk))

	res, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: dkk, Amount: "100.00", Currency: money.DKK})
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, "100.00", balanceOf(t, svc, dkk))
	assert.Equal(t, 1, ledgerLen(t, svc, dkk))

	res, err = svc.Withdraw(ctx, ports.MovementRequest{WalletID: dkk, Amount: "150.00", Currency: money.DKK})
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, domain.ErrCodeInsufficientFunds, res.Transaction.ErrorCode)
	assert.Equal(t, "100.00", balanceOf(t, svc, dkk))
	assert.Equal(t, 2, ledgerLen(t, svc, dkk))

	res, err = svc.Exchange(ctx, ports.ExchangeRequest{SourceWalletID: dkk, TargetWalletID: usd, Amount: "50.00"})
	require.NoError(t, err)
	require.False(t, res.Failed())
	assert.Equal(t, "50.00", balanceOf(t, svc, dkk))
	assert.Equal(t, "7.50", balanceOf(t, svc, usd))
	assert.Equal(t, 3, ledgerLen(t, svc, dkk))
	assert.Equal(t, 1, ledgerLen(t, svc, usd), "exchange is visible from the target wallet")
	assert.Equal(t, "50.00", res.Transaction.Amount.String())
	assert.Equal(t, money.DKK, res.Transaction.Currency)
	assert.Equal(t, "7.50", res.Transaction.CreditedAmount.String())
	assert.Equal(t, money.USD, *res.Transaction.CreditedCurrency)

	_, err = svc.Freeze(ctx, dkk)
	require.NoError(t, err)
	res, err = svc.Deposit(ctx, ports.MovementRequest{WalletID: dkk, Amount: "1.00", Currency: money.DKK})
	require.NoError(t, err)
	assert.Equal(t, domain.ErrCodeWalletNotActive, res.Transaction.ErrorCode)

	res, err = svc.Close(ctx, dkk)
	require.NoError(t, err)
	assert.Equal(t, domain.ErrCodeWalletNotEmpty, res.Transaction.ErrorCode)

	txs, err := svc.ListTransactions(ctx, dkk)
	require.NoError(t, err)
	want := []domain.TransactionType{
		domain.TransactionTypeDeposit,
		domain.TransactionTypeWithdraw,
		domain.TransactionTypeExchange,
		domain.TransactionTypeFreeze,
		domain.TransactionTypeDeposit,
		domain.TransactionTypeClose,
	}
	require.Len(t, txs, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, txs[i].Type, "entry %d", i)
	}
}

func TestEngine_DepositWithdrawRoundTrip(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	id := mustCreate(t, svc, money.EUR)

	_, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: id, Amount: "12.34", Currency: money.EUR})
	require.NoError(t, err)

	for _, amount := range []string{"0.01", "0.10", "3.33", "999999999.99"} {
		_, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: id, Amount: amount, Currency: money.EUR})
		require.NoError(t, err)
		_, err = svc.Withdraw(ctx, ports.MovementRequest{WalletID: id, Amount: amount, Currency: money.EUR})
		require.NoError(t, err)
		assert.Equal(t, "12.34", balanceOf(t, svc, id), "after %s", amount)
	}
}

func TestEngine_WithdrawBoundaries(t *testing.T) {
	tests := []struct {
		amount   string
		currency money.Currency
		code     domain.ErrorCode
	}{
		{"42.00", money.DKK, ""},
		{"41.99", money.DKK, ""},
		{"42.01", money.DKK, domain.ErrCodeInsufficientFunds},
		{"42.01", money.USD, domain.ErrCodeCurrencyMismatch},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.amount, tt.currency), func(t *testing.T) {
			svc, _ := newEngine(t)
			ctx := context.Background()
			id := mustCreate(t, svc, money.DKK)
			_, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: id, Amount: "42.00", Currency: money.DKK})
			require.NoError(t, err)

			res, err := svc.Withdraw(ctx, ports.MovementRequest{WalletID: id, Amount: tt.amount, Currency: tt.currency})
			require.NoError(t, err)
			assert.Equal(t, tt.code, res.Transaction.ErrorCode)
			if tt.code != "" {
				assert.Equal(t, "42.00", balanceOf(t, svc, id))
			}
		})
	}
}

func TestEngine_ExchangeConservation(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	eur := mustCreate(t, svc, money.EUR)
	dkk := mustCreate(t, svc, money.DKK)

	_, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: dkk, Amount: "1000.00", Currency: money.DKK})
	require.NoError(t, err)

	// 33.33 x 0.134 = 4.46622 -> 4.47
	for i, want := range []struct{ dkk, eur string }{
		{"966.67", "4.47"},
		{"933.34", "8.94"},
	} {
		res, err := svc.Exchange(ctx, ports.ExchangeRequest{SourceWalletID: dkk, TargetWalletID: eur, Amount: "33.33"})
		require.NoError(t, err)
		require.False(t, res.Failed())
		assert.Equal(t, "4.47", res.Transaction.CreditedAmount.String(), "call %d", i)
		assert.Equal(t, want.dkk, balanceOf(t, svc, dkk))
		assert.Equal(t, want.eur, balanceOf(t, svc, eur))
	}
}

func TestEngine_ExchangeMissingRate(t *testing.T) {
	svc, store := newEngine(t)
	ctx := context.Background()
	src := mustCreate(t, svc, money.DKK)
	tgt := mustCreate(t, svc, money.USD)
	_, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: src, Amount: "10.00", Currency: money.DKK})
	require.NoError(t, err)

	svc.rates, err = fx.NewStaticProvider(map[string]string{})
	require.NoError(t, err)

	res, err := svc.Exchange(ctx, ports.ExchangeRequest{SourceWalletID: src, TargetWalletID: tgt, Amount: "5.00"})
	require.NoError(t, err)
	assert.Equal(t, domain.ErrCodeRateUnavailable, res.Transaction.ErrorCode)
	assert.Equal(t, "10.00", balanceOf(t, svc, src))
	assert.Equal(t, "0.00", balanceOf(t, svc, tgt))

	stored, err := store.Transactions().GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, stored.Status)
}

func TestEngine_LifecycleIdempotence(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	id := mustCreate(t, svc, money.USD)

	for _, op := range []func(context.Context, uuid.UUID) (*ports.OperationResult, error){svc.Freeze, svc.Freeze, svc.Unfreeze, svc.Unfreeze} {
		res, err := op(ctx, id)
		require.NoError(t, err)
		assert.False(t, res.Failed())
	}
	assert.Equal(t, 4, ledgerLen(t, svc, id))

	res, err := svc.Close(ctx, id)
	require.NoError(t, err)
	require.False(t, res.Failed())

	for _, op := range []func(context.Context, uuid.UUID) (*ports.OperationResult, error){svc.Freeze, svc.Unfreeze, svc.Close} {
		res, err := op(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ErrCodeWalletClosed, res.Transaction.ErrorCode)
	}
}

// TestEngine_RandomOperations runs random operation sequences and checks
// that balances stay non-negative, each operation appends exactly one entry
// and rejected operations leave every balance untouched.
func TestEngine_RandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(20260301))
	amounts := []string{"-5.00", "0", "0.01", "1.00", "7.77", "50", "100.00", "250.50"}
	currencies := []money.Currency{money.DKK, money.EUR, money.USD}

	for run := 0; run < 20; run++ {
		svc, _ := newEngine(t)
		ctx := context.Background()

		var ids []uuid.UUID
		for i := 0; i < 4; i++ {
			ids = append(ids, mustCreate(t, svc, currencies[rng.Intn(len(currencies))]))
		}

		total := 0
		for step := 0; step < 60; step++ {
			before := snapshot(t, svc)
			a := ids[rng.Intn(len(ids))]
			b := ids[rng.Intn(len(ids))]
			amount := amounts[rng.Intn(len(amounts))]
			cur := currencies[rng.Intn(len(currencies))]

			var res *ports.OperationResult
			var err error
			switch rng.Intn(6) {
			case 0, 1:
				res, err = svc.Deposit(ctx, ports.MovementRequest{WalletID: a, Amount: amount, Currency: cur})
			case 2:
				res, err = svc.Withdraw(ctx, ports.MovementRequest{WalletID: a, Amount: amount, Currency: cur})
			case 3:
				res, err = svc.Exchange(ctx, ports.ExchangeRequest{SourceWalletID: a, TargetWalletID: b, Amount: amount})
			case 4:
				res, err = svc.Freeze(ctx, a)
			case 5:
				res, err = svc.Unfreeze(ctx, a)
			}
			require.NoError(t, err)
			total++

			after := snapshot(t, svc)
			for id, w := range after {
				assert.False(t, w.Balance.IsNegative(), "wallet %s went negative", id)
			}
			if res.Failed() {
				assert.Equal(t, before, after, "rejected %s changed state", res.Transaction.Type)
			}
		}

		entries := map[uuid.UUID]bool{}
		for _, id := range ids {
			txs, err := svc.ListTransactions(ctx, id)
			require.NoError(t, err)
			for _, tx := range txs {
				entries[tx.ID] = true
			}
		}
		assert.Len(t, entries, total)
	}
}

func snapshot(t *testing.T, svc *WalletServiceImpl) map[uuid.UUID]domain.Wallet {
	t.Helper()
	ws, err := svc.ListWallets(context.Background())
	require.NoError(t, err)
	out := make(map[uuid.UUID]domain.Wallet, len(ws))
	for _, w := range ws {
		out[w.ID] = w
	}
	return out
}

func TestEngine_ConcurrentWithdrawals(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	id := mustCreate(t, svc, money.DKK)
	_, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: id, Amount: "10.00", Currency: money.DKK})
	require.NoError(t, err)

	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Withdraw(ctx, ports.MovementRequest{WalletID: id, Amount: "1.00", Currency: money.DKK})
			if err != nil || res.Failed() {
				return
			}
			mu.Lock()
			completed++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, completed)
	assert.Equal(t, "0.00", balanceOf(t, svc, id))
	assert.Equal(t, workers+1, ledgerLen(t, svc, id))
}

func TestEngine_ConcurrentOpposingExchanges(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	dkk := mustCreate(t, svc, money.DKK)
	eur := mustCreate(t, svc, money.EUR)
	_, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: dkk, Amount: "1000.00", Currency: money.DKK})
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, ports.MovementRequest{WalletID: eur, Amount: "1000.00", Currency: money.EUR})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Exchange(ctx, ports.ExchangeRequest{SourceWalletID: dkk, TargetWalletID: eur, Amount: "10.00"})
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Exchange(ctx, ports.ExchangeRequest{SourceWalletID: eur, TargetWalletID: dkk, Amount: "1.00"})
		}()
	}
	wg.Wait()

	// 20 x (-10.00 + 7.46) DKK and 20 x (-1.00 + 1.34) EUR
	assert.Equal(t, "949.20", balanceOf(t, svc, dkk))
	assert.Equal(t, "1006.80", balanceOf(t, svc, eur))
}

func TestEngine_AmountsBeyondLedgerPrecision(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	dkk := mustCreate(t, svc, money.DKK)
	usd := mustCreate(t, svc, money.USD)

	for _, amount := range []string{"1000000000000000000000", "-1000000000000000000000"} {
		_, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: dkk, Amount: amount, Currency: money.DKK})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr, amount)
		assert.Equal(t, "INVALID_AMOUNT", appErr.Code)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)

		_, err = svc.Exchange(ctx, ports.ExchangeRequest{SourceWalletID: dkk, TargetWalletID: usd, Amount: amount})
		require.ErrorAs(t, err, &appErr, amount)
		assert.Equal(t, "INVALID_AMOUNT", appErr.Code)
	}
	assert.Equal(t, 0, ledgerLen(t, svc, dkk))

	res, err := svc.Deposit(ctx, ports.MovementRequest{WalletID: dkk, Amount: "999999999999999999.99", Currency: money.DKK})
	require.NoError(t, err)
	require.False(t, res.Failed())

	res, err = svc.Deposit(ctx, ports.MovementRequest{WalletID: dkk, Amount: "0.01", Currency: money.DKK})
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, domain.ErrCodeInvalidAmount, res.Transaction.ErrorCode)
	assert.Equal(t, "999999999999999999.99", balanceOf(t, svc, dkk))
	assert.Equal(t, 2, ledgerLen(t, svc, dkk))
}
