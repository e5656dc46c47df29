package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultMaxConns    = int32(8)
	defaultMinConns    = int32(2)
	defaultConnLife    = time.Hour
	defaultConnIdle    = 5 * time.Minute
	defaultHealthCheck = time.Minute

	tableUsers     = "users"
	tableBooks     = "books"
	tableLoans     = "loans"
	tableAuditLogs = "audit_logs"

	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgFKViolation     = "23503"
)

// dialect builds all SQL in this package.
var dialect = goqu.Dialect("postgres")

// Config captures the settings for establishing a Postgres connection pool.
type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32
	Timeout  time.Duration
}

// Connect initialises a pgx connection pool and validates connectivity with
// a ping. Pool sizing falls back to conservative defaults when unset.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	minConns := cfg.MinConns
	if minConns <= 0 {
		minConns = defaultMinConns
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = minConns
	poolCfg.MaxConnLifetime = defaultConnLife
	poolCfg.MaxConnIdleTime = defaultConnIdle
	poolCfg.HealthCheckPeriod = defaultHealthCheck
	poolCfg.ConnConfig.ConnectTimeout = timeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return pool, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool { return isPgError(err, pgUniqueViolation) }
func isCheckViolation(err error) bool  { return isPgError(err, pgCheckViolation) }
func isFKViolation(err error) bool     { return isPgError(err, pgFKViolation) }
