package ports

import (
	"context"
	"time"

	"github.com/openshelf/library-system/internal/core/domain"
)

// LoanRepository defines persistence operations for loans.
//
// Create and MarkReturned must keep the book's available_copies consistent
// with the loan state: the inventory adjustment and the loan row change
// happen atomically with respect to concurrent callers on the same book.
type LoanRepository interface {
	// Create inserts the loan and decrements the book's available_copies in
	// the same transaction. When no copy is available it returns
	// domain.ErrNoCopiesAvailable without side effects; an absent book is
	// reported as domain.ErrBookNotFound.
	Create(ctx context.Context, loan *domain.Loan) error
	FindByID(ctx context.Context, id string) (*domain.Loan, error)
	List(ctx context.Context) ([]domain.Loan, error)
	// ListActiveForUser returns the unreturned loans of one user.
	ListActiveForUser(ctx context.Context, userID string) ([]domain.Loan, error)
	// ListOverdue returns unreturned loans with due_date < now, ordered by
	// ascending due_date, ties broken by ascending id.
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Loan, error)
	// MarkReturned closes the loan: sets return_date and the final fine, and
	// increments the book's available_copies (never past total_copies) in
	// the same transaction. A loan already returned is reported as
	// domain.ErrLoanAlreadyReturned; the increment happens at most once.
	MarkReturned(ctx context.Context, id string, returnedAt time.Time, fine float64) error
}
