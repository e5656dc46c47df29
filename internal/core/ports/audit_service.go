package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// RecordInput describes one audit entry to append.
type RecordInput struct {
	Action     string
	EntityType string
	EntityID   string
	ActorID    *string
	Details    map[string]any
	IPAddress  *string
}

// AuditService defines the audit trail use cases. Record is a pure append;
// the query surface is read-only.
type AuditService interface {
	Record(ctx context.Context, input RecordInput) (*domain.AuditLog, error)
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditLog, error)
	Get(ctx context.Context, id string) (*domain.AuditLog, error)
}
