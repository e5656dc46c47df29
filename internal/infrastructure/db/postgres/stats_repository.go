package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openshelf/library-system/internal/core/ports"
)

// statsQuery gathers all health counters in one round trip.
const statsQuery = `SELECT
	(SELECT count(*) FROM users),
	(SELECT count(*) FROM books),
	(SELECT count(*) FROM loans),
	(SELECT count(*) FROM loans WHERE return_date IS NULL)`

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) Collect(ctx context.Context) (*ports.Statistics, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s ports.Statistics
	row := r.pool.QueryRow(ctx, statsQuery)
	if err := row.Scan(&s.Users, &s.Books, &s.Loans, &s.ActiveLoans); err != nil {
		return nil, fmt.Errorf("collect statistics: %w", err)
	}
	return &s, nil
}
