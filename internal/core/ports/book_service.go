package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// CreateBookInput carries catalog data for a new book.
type CreateBookInput struct {
	Title       string
	Author      string
	ISBN        string
	TotalCopies int // zero defaults to 1
	ActorID     string
	IPAddress   string
}

// UpdateBookInput carries a partial book update. AddCopies adjusts both
// total_copies and available_copies by the same amount.
type UpdateBookInput struct {
	BookID    string
	Title     *string
	Author    *string
	AddCopies int
	ActorID   string
	IPAddress string
}

// BookService defines catalog use cases.
type BookService interface {
	CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	UpdateBook(ctx context.Context, input UpdateBookInput) (*domain.Book, error)
}
