package domain

import (
	"time"

	"multicurrency-wallet/pkg/money"

	"github.com/google/uuid"
)

// Entry identifies the ledger entry an operation will produce.
type Entry struct {
	ID uuid.UUID
	At time.Time
}

// Outcome is the result of applying a rule. On rejection the wallets are
// returned unchanged and the entry is FAILED with an error code.
type Outcome struct {
	Wallet       Wallet
	Counterparty *Wallet
	Transaction  Transaction
}

// Rejected returns true if the rule refused the operation.
func (o Outcome) Rejected() bool {
	return o.Transaction.IsFailed()
}

// precondition is one row of a decision table. Rows are evaluated in order
// and the first violated row decides the error code.
type precondition[T any] struct {
	code     ErrorCode
	violated func(T) bool
}

func firstViolation[T any](table []precondition[T], in T) ErrorCode {
	for _, row := range table {
		if row.violated(in) {
			return row.code
		}
	}
	return ""
}

type movement struct {
	wallet   Wallet
	amount   money.Amount
	currency money.Currency
}

var depositTable = []precondition[movement]{
	{ErrCodeWalletNotActive, func(m movement) bool { return !m.wallet.IsActive() }},
	{ErrCodeCurrencyMismatch, func(m movement) bool { return m.currency != m.wallet.Currency }},
	{ErrCodeInvalidAmount, func(m movement) bool { return !m.amount.IsPositive() }},
	{ErrCodeInvalidAmount, func(m movement) bool { return !m.wallet.Balance.Add(m.amount).InRange() }},
}

var withdrawTable = []precondition[movement]{
	{ErrCodeWalletNotActive, func(m movement) bool { return !m.wallet.IsActive() }},
	{ErrCodeCurrencyMismatch, func(m movement) bool { return m.currency != m.wallet.Currency }},
	{ErrCodeInvalidAmount, func(m movement) bool { return !m.amount.IsPositive() }},
	{ErrCodeInsufficientFunds, func(m movement) bool { return m.amount.GreaterThan(m.wallet.Balance) }},
}

type exchange struct {
	source Wallet
	target Wallet
	amount money.Amount
}

var exchangeTable = []precondition[exchange]{
	{ErrCodeWalletNotActive, func(e exchange) bool { return !e.source.IsActive() }},
	{ErrCodeWalletNotActive, func(e exchange) bool { return !e.target.IsActive() }},
	{ErrCodeSameWallet, func(e exchange) bool { return e.source.ID == e.target.ID }},
	{ErrCodeInvalidAmount, func(e exchange) bool { return !e.amount.IsPositive() }},
	{ErrCodeInsufficientFunds, func(e exchange) bool { return e.amount.GreaterThan(e.source.Balance) }},
	{ErrCodeSameCurrency, func(e exchange) bool { return e.source.Currency == e.target.Currency }},
}

// ApplyDeposit credits amount to w.
func ApplyDeposit(w Wallet, amount money.Amount, currency money.Currency, e Entry) Outcome {
	tx := movementEntry(w, TransactionTypeDeposit, amount, currency, e)
	if code := firstViolation(depositTable, movement{w, amount, currency}); code != "" {
		return reject(w, nil, tx, code)
	}
	w.Balance = w.Balance.Add(amount)
	w.UpdatedAt = e.At
	return complete(w, nil, tx)
}

// ApplyWithdraw debits amount from w.
func ApplyWithdraw(w Wallet, amount money.Amount, currency money.Currency, e Entry) Outcome {
	tx := movementEntry(w, TransactionTypeWithdraw, amount, currency, e)
	if code := firstViolation(withdrawTable, movement{w, amount, currency}); code != "" {
		return reject(w, nil, tx, code)
	}
	w.Balance = w.Balance.Sub(amount)
	w.UpdatedAt = e.At
	return complete(w, nil, tx)
}

// CheckExchange evaluates the exchange table without a rate. It returns the
// first violated code, or "" when the exchange may proceed to a rate lookup.
func CheckExchange(source, target Wallet, amount money.Amount) ErrorCode {
	return firstViolation(exchangeTable, exchange{source, target, amount})
}

// ApplyExchange debits amount from source and credits its conversion at
// rate to target.
func ApplyExchange(source, target Wallet, amount money.Amount, rate money.Rate, e Entry) Outcome {
	tx := exchangeEntry(source, target, amount, e)
	tx.Rate = &rate
	if code := CheckExchange(source, target, amount); code != "" {
		return reject(source, &target, tx, code)
	}
	credited := amount.Convert(rate, target.Currency)
	if !target.Balance.Add(credited).InRange() {
		return reject(source, &target, tx, ErrCodeInvalidAmount)
	}
	source.Balance = source.Balance.Sub(amount)
	source.UpdatedAt = e.At
	target.Balance = target.Balance.Add(credited)
	target.UpdatedAt = e.At
	tx.CreditedAmount = &credited
	return complete(source, &target, tx)
}

// RejectExchange records an exchange that failed for a reason outside the
// decision table, such as a failed rate lookup.
func RejectExchange(source, target Wallet, amount money.Amount, code ErrorCode, e Entry) Outcome {
	return reject(source, &target, exchangeEntry(source, target, amount, e), code)
}

func movementEntry(w Wallet, typ TransactionType, amount money.Amount, currency money.Currency, e Entry) Transaction {
	return Transaction{
		ID:        e.ID,
		WalletID:  w.ID,
		Type:      typ,
		Amount:    amount,
		Currency:  currency,
		CreatedAt: e.At,
	}
}

func exchangeEntry(source, target Wallet, amount money.Amount, e Entry) Transaction {
	targetID := target.ID
	creditedCurrency := target.Currency
	return Transaction{
		ID:                   e.ID,
		WalletID:             source.ID,
		CounterpartyWalletID: &targetID,
		Type:                 TransactionTypeExchange,
		Amount:               amount,
		Currency:             source.Currency,
		CreditedCurrency:     &creditedCurrency,
		CreatedAt:            e.At,
	}
}

func reject(w Wallet, counterparty *Wallet, tx Transaction, code ErrorCode) Outcome {
	tx.Status = TransactionStatusFailed
	tx.ErrorCode = code
	return Outcome{Wallet: w, Counterparty: counterparty, Transaction: tx}
}

func complete(w Wallet, counterparty *Wallet, tx Transaction) Outcome {
	tx.Status = TransactionStatusCompleted
	balance := w.Balance
	tx.BalanceAfter = &balance
	if counterparty != nil {
		cb := counterparty.Balance
		tx.CounterpartyBalanceAfter = &cb
	}
	return Outcome{Wallet: w, Counterparty: counterparty, Transaction: tx}
}
