package domain

import (
	"errors"
	"iter"
	"time"
)

// LoanPeriodDays is the standard borrowing period; the due date of every
// loan is its loan date plus this many days.
const LoanPeriodDays = 14

var ErrLoanNotFound = errors.New("loan not found")
var ErrLoanAlreadyReturned = errors.New("loan already returned")

// Loan records a single borrow of one book copy by one user. A loan with a
// non-nil ReturnDate is terminal and never mutated again.
type Loan struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Fine       float64    `json:"fine"`
}

// Returned reports whether the loan has been closed.
func (l Loan) Returned() bool {
	return l.ReturnDate != nil
}

// Overdue reports whether the loan is unreturned and past due at now.
func (l Loan) Overdue(now time.Time) bool {
	return l.ReturnDate == nil && l.DueDate.Before(now)
}

// DueDateFor computes the due date for a loan created at loanDate.
func DueDateFor(loanDate time.Time) time.Time {
	return loanDate.AddDate(0, 0, LoanPeriodDays)
}

// OverdueEntry is a read-only projection of an unreturned loan past its due
// date. PotentialFine is what the fine would be if the book came back at the
// projection time; nothing is persisted.
type OverdueEntry struct {
	Loan          Loan    `json:"loan"`
	DaysOverdue   int     `json:"days_overdue"`
	PotentialFine float64 `json:"potential_fine"`
}

// OverdueLoans projects the overdue subset of loans at now as a restartable
// sequence. Entries keep the order of the input slice; callers wanting
// oldest-first must pass loans ordered by ascending due date.
func OverdueLoans(loans []Loan, now time.Time) iter.Seq[OverdueEntry] {
	return func(yield func(OverdueEntry) bool) {
		for _, l := range loans {
			if !l.Overdue(now) {
				continue
			}
			days := DaysOverdue(l.DueDate, now)
			entry := OverdueEntry{
				Loan:          l,
				DaysOverdue:   days,
				PotentialFine: FineFor(days),
			}
			if !yield(entry) {
				return
			}
		}
	}
}
