package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// BookService implements catalog management.
type BookService struct {
	books  ports.BookRepository
	audit  ports.AuditService
	logger zerolog.Logger
}

func NewBookService(books ports.BookRepository, audit ports.AuditService, logger zerolog.Logger) *BookService {
	return &BookService{books: books, audit: audit, logger: logger}
}

// CreateBook adds a catalog entry. All copies start available. A duplicate
// ISBN fails with domain.ErrDuplicateISBN.
func (s *BookService) CreateBook(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error) {
	copies := input.TotalCopies
	if copies <= 0 {
		copies = 1
	}

	book := &domain.Book{
		ID:              uuid.NewString(),
		Title:           input.Title,
		Author:          input.Author,
		ISBN:            input.ISBN,
		TotalCopies:     copies,
		AvailableCopies: copies,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	recordAudit(ctx, s.audit, s.logger, ports.RecordInput{
		Action:     domain.ActionCreateBook,
		EntityType: domain.EntityBook,
		EntityID:   book.ID,
		ActorID:    actorRef(input.ActorID),
		Details:    map[string]any{"title": book.Title, "isbn": book.ISBN, "total_copies": book.TotalCopies},
		IPAddress:  ipRef(input.IPAddress),
	})

	s.logger.Info().Str("book_id", book.ID).Str("isbn", book.ISBN).Int("total_copies", book.TotalCopies).Msg("book created")

	return book, nil
}

// GetBook returns a single book by id.
func (s *BookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks returns the whole catalog.
func (s *BookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// UpdateBook applies a partial update. AddCopies moves total_copies and
// available_copies by the same delta; a negative delta is rejected with
// domain.ErrInvalidCopyDelta when not enough unloaned copies remain.
func (s *BookService) UpdateBook(ctx context.Context, input ports.UpdateBookInput) (*domain.Book, error) {
	book, err := s.books.Update(ctx, input.BookID, ports.BookPatch{
		Title:     input.Title,
		Author:    input.Author,
		AddCopies: input.AddCopies,
	})
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	recordAudit(ctx, s.audit, s.logger, ports.RecordInput{
		Action:     domain.ActionUpdateBook,
		EntityType: domain.EntityBook,
		EntityID:   book.ID,
		ActorID:    actorRef(input.ActorID),
		Details:    map[string]any{"add_copies": input.AddCopies, "total_copies": book.TotalCopies, "available_copies": book.AvailableCopies},
		IPAddress:  ipRef(input.IPAddress),
	})

	s.logger.Info().Str("book_id", book.ID).Int("add_copies", input.AddCopies).Msg("book updated")

	return book, nil
}
