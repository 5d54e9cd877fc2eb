package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"multicurrency-wallet/internal/core/domain"
	"multicurrency-wallet/internal/core/ports"
	"multicurrency-wallet/pkg/apperror"
	"multicurrency-wallet/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
//
// Every mutating operation runs its read-modify-write inside one storage
// transaction and records exactly one ledger entry, whether the domain rule
// accepts or rejects it.
type WalletServiceImpl struct {
	wallets    ports.WalletRepository
	txs        ports.TransactionRepository
	transactor ports.Transactor
	rates      ports.RateProvider
	log        zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	wallets ports.WalletRepository,
	txs ports.TransactionRepository,
	transactor ports.Transactor,
	rates ports.RateProvider,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		wallets:    wallets,
		txs:        txs,
		transactor: transactor,
		rates:      rates,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.New,
	}
}

func (s *WalletServiceImpl) entry() domain.Entry {
	return domain.Entry{ID: s.newID(), At: s.now()}
}

// CreateWallet opens an ACTIVE wallet with a zero balance.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, currency money.Currency) (*domain.Wallet, error) {
	if !currency.IsSupported() {
		return nil, apperror.ErrInvalidCurrency(currency.String())
	}

	w := domain.NewWallet(s.newID(), currency, s.now())
	if err := s.wallets.Create(ctx, &w); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", w.ID.String()).
		Str("currency", currency.String()).
		Msg("wallet created")

	return &w, nil
}

func (s *WalletServiceImpl) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	w, err := s.wallets.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return w, nil
}

func (s *WalletServiceImpl) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	wallets, err := s.wallets.List(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}

// ListTransactions returns the ledger of a wallet, oldest first. Exchanges
// appear in the ledgers of both wallets involved.
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}
	txs, err := s.txs.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list transactions: %w", err))
	}
	return txs, nil
}

func (s *WalletServiceImpl) Deposit(ctx context.Context, req ports.MovementRequest) (*ports.OperationResult, error) {
	return s.move(ctx, req, domain.ApplyDeposit)
}

func (s *WalletServiceImpl) Withdraw(ctx context.Context, req ports.MovementRequest) (*ports.OperationResult, error) {
	return s.move(ctx, req, domain.ApplyWithdraw)
}

type movementRule func(domain.Wallet, money.Amount, money.Currency, domain.Entry) domain.Outcome

func (s *WalletServiceImpl) move(ctx context.Context, req ports.MovementRequest, apply movementRule) (*ports.OperationResult, error) {
	if !req.Currency.IsSupported() {
		return nil, apperror.ErrInvalidCurrency(req.Currency.String())
	}
	amount, err := money.ParseAmount(req.Amount, req.Currency)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	var out domain.Outcome
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		w, err := s.lock(ctx, req.WalletID)
		if err != nil {
			return err
		}
		out = apply(*w, amount, req.Currency, s.entry())
		return s.persist(ctx, out)
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.logOutcome(out)
	return toResult(out), nil
}

// Exchange converts amount from the source wallet into the target wallet's
// currency.
//
// Rate-independent preconditions are checked against an unlocked read
// before the rate lookup, so a request that can never succeed does not
// reach the provider. The lookup runs outside the storage transaction. The
// wallets are then locked in ascending id order and the full rule is
// re-applied to their current state.
func (s *WalletServiceImpl) Exchange(ctx context.Context, req ports.ExchangeRequest) (*ports.OperationResult, error) {
	src, err := s.GetWallet(ctx, req.SourceWalletID)
	if err != nil {
		return nil, err
	}
	tgt, err := s.GetWallet(ctx, req.TargetWalletID)
	if err != nil {
		return nil, err
	}

	amount, err := money.ParseAmount(req.Amount, src.Currency)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	if code := domain.CheckExchange(*src, *tgt, amount); code != "" {
		return s.record(ctx, domain.RejectExchange(*src, *tgt, amount, code, s.entry()))
	}

	rate, err := s.rates.GetRate(ctx, src.Currency, tgt.Currency)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("base", src.Currency.String()).
			Str("quote", tgt.Currency.String()).
			Msg("exchange rate lookup failed")
		code := domain.RateErrorCode(err)
		return s.record(ctx, domain.RejectExchange(*src, *tgt, amount, code, s.entry()))
	}

	var out domain.Outcome
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		src, tgt, err := s.lockPair(ctx, req.SourceWalletID, req.TargetWalletID)
		if err != nil {
			return err
		}
		out = domain.ApplyExchange(*src, *tgt, amount, rate, s.entry())
		return s.persist(ctx, out)
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.logOutcome(out)
	return toResult(out), nil
}

func (s *WalletServiceImpl) Freeze(ctx context.Context, walletID uuid.UUID) (*ports.OperationResult, error) {
	return s.changeStatus(ctx, walletID, domain.TransactionTypeFreeze)
}

func (s *WalletServiceImpl) Unfreeze(ctx context.Context, walletID uuid.UUID) (*ports.OperationResult, error) {
	return s.changeStatus(ctx, walletID, domain.TransactionTypeUnfreeze)
}

func (s *WalletServiceImpl) Close(ctx context.Context, walletID uuid.UUID) (*ports.OperationResult, error) {
	return s.changeStatus(ctx, walletID, domain.TransactionTypeClose)
}

func (s *WalletServiceImpl) changeStatus(ctx context.Context, walletID uuid.UUID, action domain.TransactionType) (*ports.OperationResult, error) {
	var out domain.Outcome
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		w, err := s.lock(ctx, walletID)
		if err != nil {
			return err
		}
		out = domain.ApplyStatusChange(*w, action, s.entry())
		return s.persist(ctx, out)
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.logOutcome(out)
	return toResult(out), nil
}

// record persists a rejection decided outside a locked read.
func (s *WalletServiceImpl) record(ctx context.Context, out domain.Outcome) (*ports.OperationResult, error) {
	if err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.persist(ctx, out)
	}); err != nil {
		return nil, asAppError(err)
	}
	s.logOutcome(out)
	return toResult(out), nil
}

func (s *WalletServiceImpl) lock(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	w, err := s.wallets.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return w, nil
}

// lockPair locks both wallets, lower id first, and returns them in
// argument order.
func (s *WalletServiceImpl) lockPair(ctx context.Context, srcID, tgtID uuid.UUID) (*domain.Wallet, *domain.Wallet, error) {
	if srcID == tgtID {
		w, err := s.lock(ctx, srcID)
		return w, w, err
	}

	first, second := srcID, tgtID
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}
	a, err := s.lock(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.lock(ctx, second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == srcID {
		return a, b, nil
	}
	return b, a, nil
}

// persist writes an outcome. Rejections only append the FAILED entry.
func (s *WalletServiceImpl) persist(ctx context.Context, out domain.Outcome) error {
	if !out.Rejected() {
		if err := s.wallets.Update(ctx, &out.Wallet); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("update wallet: %w", err))
		}
		if out.Counterparty != nil {
			if err := s.wallets.Update(ctx, out.Counterparty); err != nil {
				return apperror.ErrDatabaseError(fmt.Errorf("update counterparty wallet: %w", err))
			}
		}
	}
	if err := s.txs.Create(ctx, &out.Transaction); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("create transaction: %w", err))
	}
	return nil
}

func (s *WalletServiceImpl) logOutcome(out domain.Outcome) {
	tx := out.Transaction
	if out.Rejected() {
		s.log.Info().
			Str("tx_id", tx.ID.String()).
			Str("wallet_id", tx.WalletID.String()).
			Str("type", string(tx.Type)).
			Str("error_code", string(tx.ErrorCode)).
			Msg("operation rejected")
		return
	}
	ev := s.log.Info().
		Str("tx_id", tx.ID.String()).
		Str("wallet_id", tx.WalletID.String()).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.String())
	if tx.Rate != nil {
		ev = ev.Str("rate", tx.Rate.String())
	}
	ev.Msg("operation completed")
}

func toResult(out domain.Outcome) *ports.OperationResult {
	w := out.Wallet
	tx := out.Transaction
	return &ports.OperationResult{
		Wallet:       &w,
		Counterparty: out.Counterparty,
		Transaction:  &tx,
	}
}

// asAppError passes AppErrors through and wraps anything else as an
// internal fault.
func asAppError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.InternalError(err)
}
