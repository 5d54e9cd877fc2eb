package postgres

import "context"

// pinger is satisfied by *pgxpool.Pool and pgxmock's pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck reports whether the ledger database accepts connections.
type HealthCheck struct {
	db pinger
}

func NewHealthCheck(db pinger) *HealthCheck {
	return &HealthCheck{db: db}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	return h.db.Ping(ctx)
}

func (h *HealthCheck) Name() string { return "postgresql" }
