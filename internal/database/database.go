// Package database implements the durable pass and registration stores on
// PostgreSQL. Queries satisfies the store contracts declared in
// internal/passkit; schema changes are applied with goose migrations at
// startup.
package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries provides database access for the service.
type Queries struct {
	pool *pgxpool.Pool
}

// New creates a Queries backed by the given pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// IsDatabaseRunning verifies connectivity for readiness checks.
func (q *Queries) IsDatabaseRunning(ctx context.Context) (bool, error) {
	var one int
	if err := q.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return false, err
	}
	return true, nil
}
