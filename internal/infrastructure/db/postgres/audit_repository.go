package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

var auditColumns = []any{"id", "action", "entity_type", "entity_id", "user_id", "timestamp", "details", "ip_address"}

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Insert appends one entry. The table has no update or delete path.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var details any
	if len(entry.Details) > 0 {
		details = entry.Details
	}

	query, args, err := dialect.Insert(tableAuditLogs).Rows(goqu.Record{
		"id":          entry.ID,
		"action":      entry.Action,
		"entity_type": entry.EntityType,
		"entity_id":   entry.EntityID,
		"user_id":     entry.UserID,
		"timestamp":   entry.Timestamp,
		"details":     details,
		"ip_address":  entry.IPAddress,
	}).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) FindByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := dialect.From(tableAuditLogs).
		Select(auditColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var e domain.AuditLog
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.UserID, &e.Timestamp, &e.Details, &e.IPAddress); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuditEntryNotFound
		}
		return nil, fmt.Errorf("scan audit entry: %w", err)
	}
	return &e, nil
}

// List returns entries matching filter ordered by ascending timestamp, id
// as tie-break.
func (r *AuditRepository) List(ctx context.Context, filter ports.AuditFilter) ([]domain.AuditLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ds := dialect.From(tableAuditLogs).Select(auditColumns...)
	if filter.EntityType != "" {
		ds = ds.Where(goqu.C("entity_type").Eq(filter.EntityType))
	}
	if filter.EntityID != "" {
		ds = ds.Where(goqu.C("entity_id").Eq(filter.EntityID))
	}
	if filter.UserID != "" {
		ds = ds.Where(goqu.C("user_id").Eq(filter.UserID))
	}

	query, args, err := ds.Order(goqu.C("timestamp").Asc(), goqu.C("id").Asc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditLog, 0)
	for rows.Next() {
		var e domain.AuditLog
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.UserID, &e.Timestamp, &e.Details, &e.IPAddress); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
