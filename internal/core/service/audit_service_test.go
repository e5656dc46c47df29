package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// stubAuditRepo backs AuditService with an append-only slice.
type stubAuditRepo struct {
	entries   []domain.AuditLog
	insertErr error
}

func (r *stubAuditRepo) Insert(_ context.Context, entry *domain.AuditLog) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) FindByID(_ context.Context, id string) (*domain.AuditLog, error) {
	for _, e := range r.entries {
		if e.ID == id {
			clone := e
			return &clone, nil
		}
	}
	return nil, domain.ErrAuditEntryNotFound
}

func (r *stubAuditRepo) List(_ context.Context, filter ports.AuditFilter) ([]domain.AuditLog, error) {
	out := make([]domain.AuditLog, 0)
	for _, e := range r.entries {
		if filter.EntityType != "" && e.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && e.EntityID != filter.EntityID {
			continue
		}
		if filter.UserID != "" && (e.UserID == nil || *e.UserID != filter.UserID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func TestAuditService_Record_Success(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, discardLogger)

	actor := "u1"
	entry, err := svc.Record(context.Background(), ports.RecordInput{
		Action:     domain.ActionCreateLoan,
		EntityType: domain.EntityLoan,
		EntityID:   "l1",
		ActorID:    &actor,
		Details:    map[string]any{"book_id": "b1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.ID == "" {
		t.Error("entry id must not be empty")
	}
	if entry.Timestamp.IsZero() {
		t.Error("timestamp must be set by the service")
	}
	if len(repo.entries) != 1 {
		t.Errorf("expected 1 stored entry, got %d", len(repo.entries))
	}
}

func TestAuditService_Record_MissingFields(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, discardLogger)

	cases := []ports.RecordInput{
		{EntityType: domain.EntityLoan, EntityID: "l1"},
		{Action: domain.ActionCreateLoan, EntityID: "l1"},
		{Action: domain.ActionCreateLoan, EntityType: domain.EntityLoan},
	}

	for _, input := range cases {
		_, err := svc.Record(context.Background(), input)
		if !errors.Is(err, domain.ErrAuditMissingFields) {
			t.Errorf("input %+v: expected ErrAuditMissingFields, got %v", input, err)
		}
	}
	if len(repo.entries) != 0 {
		t.Errorf("rejected entries must not be stored, got %d", len(repo.entries))
	}
}

func TestAuditService_Record_RepoError(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("disk full")}
	svc := NewAuditService(repo, discardLogger)

	_, err := svc.Record(context.Background(), ports.RecordInput{
		Action:     domain.ActionCreateUser,
		EntityType: domain.EntityUser,
		EntityID:   "u1",
	})
	if err == nil {
		t.Fatal("expected error when the repo fails, got nil")
	}
}

func TestAuditService_List_Filters(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, discardLogger)

	actor := "u1"
	now := time.Now().UTC()
	repo.entries = []domain.AuditLog{
		{ID: "a1", Action: domain.ActionCreateLoan, EntityType: domain.EntityLoan, EntityID: "l1", UserID: &actor, Timestamp: now},
		{ID: "a2", Action: domain.ActionReturnBook, EntityType: domain.EntityLoan, EntityID: "l1", UserID: &actor, Timestamp: now.Add(time.Minute)},
		{ID: "a3", Action: domain.ActionCreateBook, EntityType: domain.EntityBook, EntityID: "b1", Timestamp: now.Add(2 * time.Minute)},
	}

	byEntity, err := svc.List(context.Background(), ports.AuditFilter{EntityType: domain.EntityLoan, EntityID: "l1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byEntity) != 2 {
		t.Errorf("expected 2 loan entries, got %d", len(byEntity))
	}

	byActor, err := svc.List(context.Background(), ports.AuditFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byActor) != 2 {
		t.Errorf("expected 2 entries for actor u1, got %d", len(byActor))
	}
}

func TestAuditService_Get_NotFound(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, discardLogger)

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrAuditEntryNotFound) {
		t.Fatalf("expected ErrAuditEntryNotFound, got %v", err)
	}
}
