// Package memory is an in-process implementation of the repository and
// transactor ports. Transactions are serialized by a single lock and undone
// from a journal on failure.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"multicurrency-wallet/internal/core/domain"

	"github.com/google/uuid"
)

type txKey struct{}

// journal collects undo steps for one open transaction.
type journal struct {
	undo []func()
}

// Store holds wallets and ledger entries.
type Store struct {
	txMu sync.Mutex // serializes WithinTransaction

	mu      sync.RWMutex
	wallets map[uuid.UUID]domain.Wallet
	order   []uuid.UUID // wallet creation order
	entries []domain.Transaction
	byID    map[uuid.UUID]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		wallets: make(map[uuid.UUID]domain.Wallet),
		byID:    make(map[uuid.UUID]int),
	}
}

// WithinTransaction implements ports.Transactor. Nested calls join the
// outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*journal); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &journal{}
	if err := fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// record registers an undo step when ctx carries an open transaction.
// Callers hold s.mu.
func record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(txKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

func (s *Store) removeWallet(id uuid.UUID) {
	delete(s.wallets, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Store) removeEntry(id uuid.UUID) {
	i, ok := s.byID[id]
	if !ok {
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.byID, id)
	for j := i; j < len(s.entries); j++ {
		s.byID[s.entries[j].ID] = j
	}
}

// Wallets returns the store as a ports.WalletRepository.
func (s *Store) Wallets() *WalletRepo { return &WalletRepo{s: s} }

// Transactions returns the store as a ports.TransactionRepository.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s: s} }

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	s *Store
}

func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.wallets[w.ID]; exists {
		return fmt.Errorf("insert wallet: duplicate id %s", w.ID)
	}
	r.s.wallets[w.ID] = *w
	r.s.order = append(r.s.order, w.ID)
	record(ctx, func() { r.s.removeWallet(w.ID) })
	return nil
}

func (r *WalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// GetByIDForUpdate reads the wallet. The transaction lock already excludes
// other writers.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	if _, ok := ctx.Value(txKey{}).(*journal); !ok {
		return nil, fmt.Errorf("get wallet for update: no open transaction")
	}
	return r.GetByID(ctx, id)
}

func (r *WalletRepo) List(_ context.Context) ([]domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Wallet, 0, len(r.s.order))
	for _, id := range r.s.order {
		out = append(out, r.s.wallets[id])
	}
	return out, nil
}

func (r *WalletRepo) Update(ctx context.Context, w *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.wallets[w.ID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", w.ID)
	}
	if w.Balance.IsNegative() {
		return fmt.Errorf("update wallet %s: negative balance %s", w.ID, w.Balance)
	}
	r.s.wallets[w.ID] = *w
	record(ctx, func() { r.s.wallets[w.ID] = prev })
	return nil
}

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	s *Store
}

func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.byID[t.ID]; exists {
		return fmt.Errorf("insert transaction: duplicate id %s", t.ID)
	}
	r.s.byID[t.ID] = len(r.s.entries)
	r.s.entries = append(r.s.entries, *t)
	record(ctx, func() { r.s.removeEntry(t.ID) })
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.byID[id]
	if !ok {
		return nil, nil
	}
	t := r.s.entries[i]
	return &t, nil
}

// ListByWallet returns entries involving walletID by created_at, then
// insertion order.
func (r *TransactionRepo) ListByWallet(_ context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Transaction
	for i := range r.s.entries {
		if r.s.entries[i].Involves(walletID) {
			out = append(out, r.s.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(context.Context) error { return nil }

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "memory" }
