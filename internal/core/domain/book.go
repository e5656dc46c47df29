package domain

import (
	"errors"
	"time"
)

var ErrBookNotFound = errors.New("book not found")
var ErrDuplicateISBN = errors.New("isbn already registered")
var ErrNoCopiesAvailable = errors.New("no copies available")
var ErrInvalidCopyDelta = errors.New("copy delta would make available copies negative")

// Book is a catalog entry. AvailableCopies tracks how many physical copies
// are currently on the shelf; the invariant 0 <= available <= total holds
// across every loan, return and inventory update.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
}
