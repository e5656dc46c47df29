package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories, mirroring the Postgres semantics
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email || existing.Phone == u.Phone {
			return domain.ErrDuplicateUser
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type stubBookRepo struct {
	books map[string]*domain.Book
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) error {
	for _, existing := range r.books {
		if existing.ISBN == b.ISBN {
			return domain.ErrDuplicateISBN
		}
	}
	clone := *b
	r.books[b.ID] = &clone
	return nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookRepo) List(_ context.Context) ([]domain.Book, error) {
	out := make([]domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// Update enforces the same delta guard the real conditional UPDATE does.
func (r *stubBookRepo) Update(_ context.Context, id string, patch ports.BookPatch) (*domain.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	if patch.AddCopies < 0 && (b.AvailableCopies+patch.AddCopies < 0 || b.TotalCopies+patch.AddCopies < 1) {
		return nil, domain.ErrInvalidCopyDelta
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Author != nil {
		b.Author = *patch.Author
	}
	b.TotalCopies += patch.AddCopies
	b.AvailableCopies += patch.AddCopies
	clone := *b
	return &clone, nil
}

type stubLoanRepo struct {
	loans map[string]*domain.Loan
	books *stubBookRepo
}

func newStubLoanRepo(books *stubBookRepo) *stubLoanRepo {
	return &stubLoanRepo{loans: make(map[string]*domain.Loan), books: books}
}

// Create mirrors the transactional decrement: it fails without side effects
// when the book is absent or out of copies.
func (r *stubLoanRepo) Create(_ context.Context, l *domain.Loan) error {
	b, ok := r.books.books[l.BookID]
	if !ok {
		return domain.ErrBookNotFound
	}
	if b.AvailableCopies <= 0 {
		return domain.ErrNoCopiesAvailable
	}
	b.AvailableCopies--
	clone := *l
	r.loans[l.ID] = &clone
	return nil
}

func (r *stubLoanRepo) FindByID(_ context.Context, id string) (*domain.Loan, error) {
	l, ok := r.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubLoanRepo) List(_ context.Context) ([]domain.Loan, error) {
	out := make([]domain.Loan, 0, len(r.loans))
	for _, l := range r.loans {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoanDate.Before(out[j].LoanDate) })
	return out, nil
}

func (r *stubLoanRepo) ListActiveForUser(_ context.Context, userID string) ([]domain.Loan, error) {
	out := make([]domain.Loan, 0)
	for _, l := range r.loans {
		if l.UserID == userID && l.ReturnDate == nil {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *stubLoanRepo) ListOverdue(_ context.Context, now time.Time) ([]domain.Loan, error) {
	out := make([]domain.Loan, 0)
	for _, l := range r.loans {
		if l.ReturnDate == nil && l.DueDate.Before(now) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MarkReturned mirrors the conditional UPDATE: a second return fails and the
// availability increment runs at most once, capped at total_copies.
func (r *stubLoanRepo) MarkReturned(_ context.Context, id string, returnedAt time.Time, fine float64) error {
	l, ok := r.loans[id]
	if !ok {
		return domain.ErrLoanNotFound
	}
	if l.ReturnDate != nil {
		return domain.ErrLoanAlreadyReturned
	}
	ts := returnedAt
	l.ReturnDate = &ts
	l.Fine = fine
	if b, ok := r.books.books[l.BookID]; ok && b.AvailableCopies < b.TotalCopies {
		b.AvailableCopies++
	}
	return nil
}

// stubAuditRecorder implements ports.AuditService in memory.
type stubAuditRecorder struct {
	entries   []domain.AuditLog
	recordErr error // if set, Record returns this error
}

func (s *stubAuditRecorder) Record(_ context.Context, in ports.RecordInput) (*domain.AuditLog, error) {
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	entry := domain.AuditLog{
		ID:         uuid.NewString(),
		Action:     in.Action,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		UserID:     in.ActorID,
		Timestamp:  time.Now().UTC(),
		Details:    in.Details,
		IPAddress:  in.IPAddress,
	}
	s.entries = append(s.entries, entry)
	return &entry, nil
}

func (s *stubAuditRecorder) List(_ context.Context, filter ports.AuditFilter) ([]domain.AuditLog, error) {
	out := make([]domain.AuditLog, 0)
	for _, e := range s.entries {
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

func (s *stubAuditRecorder) Get(_ context.Context, id string) (*domain.AuditLog, error) {
	for _, e := range s.entries {
		if e.ID == id {
			clone := e
			return &clone, nil
		}
	}
	return nil, domain.ErrAuditEntryNotFound
}

// byAction returns the recorded entries with the given action.
func (s *stubAuditRecorder) byAction(action string) []domain.AuditLog {
	out := make([]domain.AuditLog, 0)
	for _, e := range s.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// stubIdemStore implements IdempotencyStore in memory.
type stubIdemStore struct {
	keys      map[string]string
	lookupErr error
}

func newStubIdemStore() *stubIdemStore {
	return &stubIdemStore{keys: make(map[string]string)}
}

func (s *stubIdemStore) Lookup(_ context.Context, key string) (string, error) {
	if s.lookupErr != nil {
		return "", s.lookupErr
	}
	return s.keys[key], nil
}

func (s *stubIdemStore) Remember(_ context.Context, key, loanID string) error {
	s.keys[key] = loanID
	return nil
}
