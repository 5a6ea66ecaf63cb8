package postgres

import (
	"context"
	"database/sql"

	"forgeai/omega_gateway/internal/adapters/probe"
	corehealth "forgeai/omega_gateway/internal/core/health"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolProbe checks the database through a pgx connection pool.
type PoolProbe struct {
	pool Pinger
}

func NewPoolProbe(pool Pinger) *PoolProbe {
	return &PoolProbe{pool: pool}
}

func (p *PoolProbe) Check(ctx context.Context) corehealth.Result {
	return probe.FromError(ctx, p.pool.Ping(ctx))
}

// SQLProbe checks the database through database/sql (lib/pq driver).
type SQLProbe struct {
	db *sql.DB
}

func NewSQLProbe(db *sql.DB) *SQLProbe {
	return &SQLProbe{db: db}
}

func (p *SQLProbe) Check(ctx context.Context) corehealth.Result {
	return probe.FromError(ctx, p.db.PingContext(ctx))
}

var (
	_ corehealth.Probe = (*PoolProbe)(nil)
	_ corehealth.Probe = (*SQLProbe)(nil)
)
