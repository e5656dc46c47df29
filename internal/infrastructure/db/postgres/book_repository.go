package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

var bookColumns = []any{"id", "title", "author", "isbn", "total_copies", "available_copies", "created_at"}

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

// Create inserts a new catalog entry. The unique index on isbn surfaces
// collisions as domain.ErrDuplicateISBN.
func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := dialect.Insert(tableBooks).Rows(goqu.Record{
		"id":               book.ID,
		"title":            book.Title,
		"author":           book.Author,
		"isbn":             book.ISBN,
		"total_copies":     book.TotalCopies,
		"available_copies": book.AvailableCopies,
		"created_at":       book.CreatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateISBN
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := dialect.From(tableBooks).
		Select(bookColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	b, err := scanBook(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return b, nil
}

func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := dialect.From(tableBooks).
		Select(bookColumns...).
		Order(goqu.C("title").Asc(), goqu.C("id").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]domain.Book, 0)
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// Update applies patch in a single conditional UPDATE. A copy delta is
// applied to total_copies and available_copies together; the WHERE clause
// refuses deltas that would drive either below its floor, so a rejected
// update leaves the row untouched.
func (r *BookRepository) Update(ctx context.Context, id string, patch ports.BookPatch) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := goqu.Record{}
	if patch.Title != nil {
		rec["title"] = *patch.Title
	}
	if patch.Author != nil {
		rec["author"] = *patch.Author
	}
	if patch.AddCopies != 0 {
		rec["total_copies"] = goqu.L("total_copies + ?", patch.AddCopies)
		rec["available_copies"] = goqu.L("available_copies + ?", patch.AddCopies)
	}
	if len(rec) == 0 {
		return r.FindByID(ctx, id)
	}

	conds := []goqu.Expression{goqu.C("id").Eq(id)}
	if patch.AddCopies < 0 {
		conds = append(conds,
			goqu.L("available_copies + ? >= 0", patch.AddCopies),
			goqu.L("total_copies + ? >= 1", patch.AddCopies),
		)
	}

	query, args, err := dialect.Update(tableBooks).
		Set(rec).
		Where(conds...).
		Returning(bookColumns...).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	b, err := scanBook(r.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return b, nil
	}
	if isCheckViolation(err) {
		return nil, domain.ErrInvalidCopyDelta
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update book: %w", err)
	}

	// No row matched: either the book does not exist or the delta guard
	// rejected it. Distinguish for the caller.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrInvalidCopyDelta
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var b domain.Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
