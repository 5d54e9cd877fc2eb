package postgres

import (
	"context"
	"errors"
	"fmt"

	"multicurrency-wallet/internal/core/domain"
	"multicurrency-wallet/pkg/money"

	txpgx "github.com/Thiht/transactor/pgx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, wallet_id, counterparty_wallet_id, type, amount::text, currency,
	credited_amount::text, credited_currency, trim_scale(rate)::text,
	balance_after::text, counterparty_balance_after::text,
	status, error_code, created_at`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	db txpgx.DBGetter
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(db txpgx.DBGetter) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Create appends a ledger entry.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, wallet_id, counterparty_wallet_id, type, amount, currency,
		credited_amount, credited_currency, rate, balance_after, counterparty_balance_after,
		status, error_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	var creditedCurrency, errorCode, rate *string
	if t.CreditedCurrency != nil {
		s := string(*t.CreditedCurrency)
		creditedCurrency = &s
	}
	if t.ErrorCode != "" {
		s := string(t.ErrorCode)
		errorCode = &s
	}
	if t.Rate != nil {
		s := t.Rate.String()
		rate = &s
	}

	_, err := r.db(ctx).Exec(ctx, query,
		t.ID, t.WalletID, t.CounterpartyWalletID, string(t.Type),
		t.Amount.String(), string(t.Currency),
		amountText(t.CreditedAmount), creditedCurrency, rate,
		amountText(t.BalanceAfter), amountText(t.CounterpartyBalanceAfter),
		string(t.Status), errorCode, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a single ledger entry.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// ListByWallet returns entries owned by or crediting walletID, in the order
// they were written.
func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE wallet_id = $1 OR counterparty_wallet_id = $1
		ORDER BY created_at, seq`

	rows, err := r.db(ctx).Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t                                                 domain.Transaction
		typ, amount, currency, status                     string
		creditedAmount, creditedCurrency, rate            *string
		balanceAfter, counterpartyBalanceAfter, errorCode *string
	)
	err := row.Scan(
		&t.ID, &t.WalletID, &t.CounterpartyWalletID, &typ, &amount, &currency,
		&creditedAmount, &creditedCurrency, &rate,
		&balanceAfter, &counterpartyBalanceAfter,
		&status, &errorCode, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type = domain.TransactionType(typ)
	t.Currency = money.Currency(currency)
	t.Status = domain.TransactionStatus(status)
	if errorCode != nil {
		t.ErrorCode = domain.ErrorCode(*errorCode)
	}

	if t.Amount, err = money.ParseAmount(amount, t.Currency); err != nil {
		return nil, fmt.Errorf("transaction %s amount: %w", t.ID, err)
	}
	if creditedCurrency != nil {
		c := money.Currency(*creditedCurrency)
		t.CreditedCurrency = &c
	}
	if t.CreditedAmount, err = optionalAmount(creditedAmount, t.CreditedCurrency); err != nil {
		return nil, fmt.Errorf("transaction %s credited amount: %w", t.ID, err)
	}
	if t.BalanceAfter, err = optionalAmount(balanceAfter, &t.Currency); err != nil {
		return nil, fmt.Errorf("transaction %s balance after: %w", t.ID, err)
	}
	if t.CounterpartyBalanceAfter, err = optionalAmount(counterpartyBalanceAfter, t.CreditedCurrency); err != nil {
		return nil, fmt.Errorf("transaction %s counterparty balance after: %w", t.ID, err)
	}
	if rate != nil {
		r, err := money.ParseRate(*rate)
		if err != nil {
			return nil, fmt.Errorf("transaction %s rate: %w", t.ID, err)
		}
		t.Rate = &r
	}
	return &t, nil
}

func amountText(a *money.Amount) *string {
	if a == nil {
		return nil
	}
	s := a.String()
	return &s
}

func optionalAmount(text *string, currency *money.Currency) (*money.Amount, error) {
	if text == nil {
		return nil, nil
	}
	cur := money.USD
	if currency != nil {
		cur = *currency
	}
	a, err := money.ParseAmount(*text, cur)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
