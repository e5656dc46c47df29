package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/api/metrics"
	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// AuditService appends and queries the immutable audit trail.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record appends one audit entry. Action, entity type and entity id are
// required; everything else is optional context.
func (s *AuditService) Record(ctx context.Context, input ports.RecordInput) (*domain.AuditLog, error) {
	if input.Action == "" || input.EntityType == "" || input.EntityID == "" {
		return nil, domain.ErrAuditMissingFields
	}

	entry := &domain.AuditLog{
		ID:         uuid.NewString(),
		Action:     input.Action,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		UserID:     input.ActorID,
		Timestamp:  time.Now().UTC(),
		Details:    input.Details,
		IPAddress:  input.IPAddress,
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("record audit entry: %w", err)
	}

	metrics.AuditRecordsTotal.WithLabelValues(entry.Action).Inc()

	return entry, nil
}

// List returns entries matching filter, oldest first.
func (s *AuditService) List(ctx context.Context, filter ports.AuditFilter) ([]domain.AuditLog, error) {
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// Get returns a single entry by id.
func (s *AuditService) Get(ctx context.Context, id string) (*domain.AuditLog, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get audit entry: %w", err)
	}
	return entry, nil
}

// recordAudit appends an audit entry on behalf of a mutating operation.
// Audit writes are best-effort: a failure is logged and counted but never
// rolls back the mutation that triggered it.
func recordAudit(ctx context.Context, audit ports.AuditService, log zerolog.Logger, input ports.RecordInput) {
	if _, err := audit.Record(ctx, input); err != nil {
		metrics.AuditFailuresTotal.Inc()
		log.Error().Err(err).
			Str("action", input.Action).
			Str("entity_type", input.EntityType).
			Str("entity_id", input.EntityID).
			Msg("failed to record audit entry")
	}
}

// actorRef converts a non-empty actor id into the nullable form audit
// entries use; system-initiated actions stay nil.
func actorRef(actorID string) *string {
	if actorID == "" {
		return nil
	}
	return &actorID
}

// ipRef converts a non-empty request address into nullable form.
func ipRef(ip string) *string {
	if ip == "" {
		return nil
	}
	return &ip
}
