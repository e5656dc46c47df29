package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/api/metrics"
	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// IdempotencyStore abstracts the Idempotency-Key lookup table (Redis).
type IdempotencyStore interface {
	// Lookup returns the loan id previously stored for key, or "" on a miss.
	Lookup(ctx context.Context, key string) (string, error)
	Remember(ctx context.Context, key, loanID string) error
}

// LoanService implements the loan lifecycle: creating a loan against
// available inventory, closing it with a fine, and projecting overdue state.
// It holds no state between calls; the repositories are the only shared
// mutable resource.
type LoanService struct {
	loans  ports.LoanRepository
	users  ports.UserRepository
	books  ports.BookRepository
	audit  ports.AuditService
	idem   IdempotencyStore
	logger zerolog.Logger
}

// NewLoanService wires a LoanService. idem may be nil, which disables
// Idempotency-Key replay.
func NewLoanService(
	loans ports.LoanRepository,
	users ports.UserRepository,
	books ports.BookRepository,
	audit ports.AuditService,
	idem IdempotencyStore,
	logger zerolog.Logger,
) *LoanService {
	return &LoanService{loans: loans, users: users, books: books, audit: audit, idem: idem, logger: logger}
}

// CreateLoan lends one copy of a book to a user. The availability decrement
// is atomic with the loan insert; when no copy is left the call fails with
// domain.ErrNoCopiesAvailable and changes nothing. If an idempotency key is
// provided and already seen, the previously created loan is returned
// without side effects.
func (s *LoanService) CreateLoan(ctx context.Context, input ports.CreateLoanInput) (*ports.CreateLoanResult, error) {
	if replay := s.replayLoan(ctx, input.IdempotencyKey); replay != nil {
		return replay, nil
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}
	book, err := s.books.FindByID(ctx, input.BookID)
	if err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		BookID:   book.ID,
		LoanDate: now,
		DueDate:  domain.DueDateFor(now),
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, input.IdempotencyKey, loan.ID); err != nil {
			s.logger.Warn().Err(err).Str("loan_id", loan.ID).Msg("failed to store idempotency key")
		}
	}

	metrics.LoansCreatedTotal.Inc()

	recordAudit(ctx, s.audit, s.logger, ports.RecordInput{
		Action:     domain.ActionCreateLoan,
		EntityType: domain.EntityLoan,
		EntityID:   loan.ID,
		ActorID:    actorRef(input.ActorID),
		Details:    map[string]any{"user_id": user.ID, "book_id": book.ID, "due_date": loan.DueDate},
		IPAddress:  ipRef(input.IPAddress),
	})

	s.logger.Info().
		Str("loan_id", loan.ID).
		Str("user_id", user.ID).
		Str("book_id", book.ID).
		Time("due_date", loan.DueDate).
		Msg("loan created")

	return &ports.CreateLoanResult{Loan: *loan}, nil
}

// replayLoan answers a repeated submission from the idempotency store.
// Any store failure falls through to normal creation.
func (s *LoanService) replayLoan(ctx context.Context, key string) *ports.CreateLoanResult {
	if key == "" || s.idem == nil {
		return nil
	}

	loanID, err := s.idem.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if loanID == "" {
		return nil
	}

	existing, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		s.logger.Warn().Err(err).Str("loan_id", loanID).Msg("idempotency key points at missing loan, creating anyway")
		return nil
	}

	metrics.LoanReplaysTotal.Inc()
	s.logger.Info().Str("loan_id", existing.ID).Msg("idempotent replay")

	return &ports.CreateLoanResult{Loan: *existing, AlreadyExisted: true}
}

// ReturnLoan closes a loan: stamps the return date, finalizes the fine, and
// puts the copy back on the shelf. Returning twice fails with
// domain.ErrLoanAlreadyReturned and the availability increment happens
// exactly once.
func (s *LoanService) ReturnLoan(ctx context.Context, input ports.ReturnLoanInput) (*ports.ReturnResult, error) {
	loan, err := s.loans.FindByID(ctx, input.LoanID)
	if err != nil {
		return nil, fmt.Errorf("return loan: %w", err)
	}
	if loan.Returned() {
		return nil, domain.ErrLoanAlreadyReturned
	}

	now := time.Now().UTC()
	daysOverdue := domain.DaysOverdue(loan.DueDate, now)
	fine := domain.FineFor(daysOverdue)

	if err := s.loans.MarkReturned(ctx, loan.ID, now, fine); err != nil {
		return nil, fmt.Errorf("return loan: %w", err)
	}
	loan.ReturnDate = &now
	loan.Fine = fine

	overdue := daysOverdue > 0
	metrics.LoansReturnedTotal.WithLabelValues(strconv.FormatBool(overdue)).Inc()
	metrics.FineAmounts.Observe(fine)

	// Without an authenticated caller the borrower is the actor.
	actor := input.ActorID
	if actor == "" {
		actor = loan.UserID
	}

	recordAudit(ctx, s.audit, s.logger, ports.RecordInput{
		Action:     domain.ActionReturnBook,
		EntityType: domain.EntityLoan,
		EntityID:   loan.ID,
		ActorID:    actorRef(actor),
		Details:    map[string]any{"days_overdue": daysOverdue, "fine": fine},
		IPAddress:  ipRef(input.IPAddress),
	})

	s.logger.Info().
		Str("loan_id", loan.ID).
		Int("days_overdue", daysOverdue).
		Float64("fine", fine).
		Msg("loan returned")

	return &ports.ReturnResult{
		Loan:        *loan,
		IsOverdue:   overdue,
		DaysOverdue: daysOverdue,
		Fine:        fine,
	}, nil
}

// GetLoan returns a single loan by id.
func (s *LoanService) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := s.loans.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return loan, nil
}

// ListLoans returns every loan, active and returned.
func (s *LoanService) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	loans, err := s.loans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// ListOverdue projects all loans overdue at now, oldest due date first.
// Pure read: fines here are potential, not persisted.
func (s *LoanService) ListOverdue(ctx context.Context, now time.Time) ([]domain.OverdueEntry, error) {
	loans, err := s.loans.ListOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	return slices.Collect(domain.OverdueLoans(loans, now)), nil
}
