package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// BookPatch carries the mutable fields of a book update. Nil pointers leave
// the field untouched; AddCopies adjusts total_copies and available_copies
// by the same delta.
type BookPatch struct {
	Title     *string
	Author    *string
	AddCopies int
}

// BookRepository defines persistence operations for catalog entries.
type BookRepository interface {
	// Create inserts a new book. A duplicate ISBN is reported as
	// domain.ErrDuplicateISBN.
	Create(ctx context.Context, book *domain.Book) error
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	// Update applies patch atomically. A negative AddCopies that would drive
	// available_copies below zero is reported as domain.ErrInvalidCopyDelta
	// and leaves the row unchanged.
	Update(ctx context.Context, id string, patch BookPatch) (*domain.Book, error)
}
