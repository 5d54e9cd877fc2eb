package postgres

import (
	"multicurrency-wallet/internal/core/ports"

	txpgx "github.com/Thiht/transactor/pgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ports.Transactor = (*txpgx.Transactor)(nil)

// NewTransactor returns the runner behind ports.Transactor and the getter the
// repositories query through. Inside WithinTransaction the getter yields the
// open transaction, so row locks taken by GetByIDForUpdate hold until the
// wallet update and its ledger entry commit together.
func NewTransactor(pool *pgxpool.Pool) (*txpgx.Transactor, txpgx.DBGetter) {
	return txpgx.NewTransactorFromPool(pool)
}
