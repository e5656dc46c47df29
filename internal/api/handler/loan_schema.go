package handler

import (
	"time"

	"github.com/openshelf/library-system/internal/core/domain"
)

type createLoanRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
	BookID string `json:"book_id" validate:"required,uuid4"`
}

type createLoanResponse struct {
	domain.Loan
	// AlreadyExisted is set when the Idempotency-Key matched a previous loan.
	AlreadyExisted bool `json:"already_existed,omitempty"`
}

type returnLoanResponse struct {
	LoanID      string    `json:"loan_id"`
	ReturnDate  time.Time `json:"return_date"`
	Fine        float64   `json:"fine"`
	IsOverdue   bool      `json:"is_overdue"`
	DaysOverdue int       `json:"days_overdue"`
}

// overdueLoanResponse flattens an overdue projection entry. potential_fine
// is computed for the request time, not persisted.
type overdueLoanResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	BookID        string    `json:"book_id"`
	LoanDate      time.Time `json:"loan_date"`
	DueDate       time.Time `json:"due_date"`
	DaysOverdue   int       `json:"days_overdue"`
	PotentialFine float64   `json:"potential_fine"`
}

type listOverdueResponse struct {
	Count        int                   `json:"count"`
	OverdueLoans []overdueLoanResponse `json:"overdue_loans"`
}
