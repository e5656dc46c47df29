package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// AuditFilter narrows audit queries. Empty fields are not filtered on.
type AuditFilter struct {
	EntityType string
	EntityID   string
	UserID     string
}

// AuditRepository defines persistence operations for the audit trail.
// The trail is append-only; there are no update or delete operations.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditLog) error
	FindByID(ctx context.Context, id string) (*domain.AuditLog, error)
	// List returns entries matching filter ordered by ascending timestamp.
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditLog, error)
}
