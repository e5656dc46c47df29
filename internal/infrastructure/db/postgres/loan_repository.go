package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openshelf/library-system/internal/core/domain"
)

var loanColumns = []any{"id", "user_id", "book_id", "loan_date", "due_date", "return_date", "fine"}

type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Create inserts the loan and takes one copy off the shelf in a single
// transaction. The decrement is a conditional UPDATE guarded by
// available_copies > 0; zero rows affected means either the book is gone or
// no copy is left, and nothing is committed.
func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create loan: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	decrement, args, err := dialect.Update(tableBooks).
		Set(goqu.Record{"available_copies": goqu.L("available_copies - 1")}).
		Where(goqu.C("id").Eq(loan.BookID), goqu.C("available_copies").Gt(0)).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build decrement query: %w", err)
	}

	tag, err := tx.Exec(ctx, decrement, args...)
	if err != nil {
		return fmt.Errorf("decrement available copies: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := NewBookRepository(r.pool).FindByID(ctx, loan.BookID); findErr != nil {
			return findErr
		}
		return domain.ErrNoCopiesAvailable
	}

	insert, args, err := dialect.Insert(tableLoans).Rows(goqu.Record{
		"id":        loan.ID,
		"user_id":   loan.UserID,
		"book_id":   loan.BookID,
		"loan_date": loan.LoanDate,
		"due_date":  loan.DueDate,
		"fine":      loan.Fine,
	}).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := tx.Exec(ctx, insert, args...); err != nil {
		if isFKViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert loan: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create loan: %w", err)
	}
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := dialect.From(tableLoans).
		Select(loanColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var l domain.Loan
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&l.ID, &l.UserID, &l.BookID, &l.LoanDate, &l.DueDate, &l.ReturnDate, &l.Fine); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("scan loan: %w", err)
	}
	return &l, nil
}

func (r *LoanRepository) List(ctx context.Context) ([]domain.Loan, error) {
	return r.queryLoans(ctx, dialect.From(tableLoans).
		Select(loanColumns...).
		Order(goqu.C("loan_date").Asc(), goqu.C("id").Asc()))
}

// ListActiveForUser returns the unreturned loans of one user, soonest due
// first.
func (r *LoanRepository) ListActiveForUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	return r.queryLoans(ctx, dialect.From(tableLoans).
		Select(loanColumns...).
		Where(goqu.C("user_id").Eq(userID), goqu.C("return_date").IsNull()).
		Order(goqu.C("due_date").Asc(), goqu.C("id").Asc()))
}

// ListOverdue returns unreturned loans past due at now, oldest due date
// first with id as tie-break.
func (r *LoanRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Loan, error) {
	return r.queryLoans(ctx, dialect.From(tableLoans).
		Select(loanColumns...).
		Where(goqu.C("return_date").IsNull(), goqu.C("due_date").Lt(now)).
		Order(goqu.C("due_date").Asc(), goqu.C("id").Asc()))
}

// MarkReturned closes the loan and puts the copy back in a single
// transaction. The loan UPDATE is guarded by return_date IS NULL, so a
// second return affects zero rows and the availability increment runs at
// most once; LEAST keeps available_copies within total_copies.
func (r *LoanRepository) MarkReturned(ctx context.Context, id string, returnedAt time.Time, fine float64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin return loan: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	update, args, err := dialect.Update(tableLoans).
		Set(goqu.Record{"return_date": returnedAt, "fine": fine}).
		Where(goqu.C("id").Eq(id), goqu.C("return_date").IsNull()).
		Returning("book_id").
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	var bookID string
	if err := tx.QueryRow(ctx, update, args...).Scan(&bookID); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("close loan: %w", err)
		}
		// No row matched: absent loan or one already returned.
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return domain.ErrLoanAlreadyReturned
	}

	increment, args, err := dialect.Update(tableBooks).
		Set(goqu.Record{"available_copies": goqu.L("LEAST(available_copies + 1, total_copies)")}).
		Where(goqu.C("id").Eq(bookID)).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build increment query: %w", err)
	}

	if _, err := tx.Exec(ctx, increment, args...); err != nil {
		return fmt.Errorf("increment available copies: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit return loan: %w", err)
	}
	return nil
}

func (r *LoanRepository) queryLoans(ctx context.Context, ds *goqu.SelectDataset) ([]domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	loans := make([]domain.Loan, 0)
	for rows.Next() {
		var l domain.Loan
		if err := rows.Scan(&l.ID, &l.UserID, &l.BookID, &l.LoanDate, &l.DueDate, &l.ReturnDate, &l.Fine); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}
	return loans, nil
}
