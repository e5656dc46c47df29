package ports

import (
	"context"
	"time"

	"github.com/openshelf/library-system/internal/core/domain"
)

// CreateLoanInput carries all data needed to create a loan.
type CreateLoanInput struct {
	UserID string
	BookID string
	// ActorID identifies who initiated the action, for the audit trail.
	ActorID   string
	IPAddress string
	// IdempotencyKey, when non-empty, makes repeated submissions return the
	// originally created loan instead of creating another one.
	IdempotencyKey string
}

// CreateLoanResult is returned by the service after creating a loan.
type CreateLoanResult struct {
	Loan domain.Loan
	// AlreadyExisted is true when the Idempotency-Key matched a previous loan.
	AlreadyExisted bool
}

// ReturnLoanInput carries the parameters for closing a loan.
type ReturnLoanInput struct {
	LoanID    string
	ActorID   string
	IPAddress string
}

// ReturnResult is the outcome of returning a loan.
type ReturnResult struct {
	Loan        domain.Loan
	IsOverdue   bool
	DaysOverdue int
	Fine        float64
}

// LoanService defines the loan lifecycle use cases.
type LoanService interface {
	CreateLoan(ctx context.Context, input CreateLoanInput) (*CreateLoanResult, error)
	ReturnLoan(ctx context.Context, input ReturnLoanInput) (*ReturnResult, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context) ([]domain.Loan, error)
	// ListOverdue projects all currently overdue loans at now, oldest due
	// date first. Pure read; nothing is persisted.
	ListOverdue(ctx context.Context, now time.Time) ([]domain.OverdueEntry, error)
}
