package domain

import (
	"errors"
	"time"
)

const (
	RolePatron    = "patron"
	RoleLibrarian = "librarian"
)

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateUser = errors.New("username, email or phone already registered")
var ErrInvalidRole = errors.New("role must be patron or librarian")

// User models a library patron or librarian.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	return role == RolePatron || role == RoleLibrarian
}
