package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// CreateUserInput carries registration data for a new user.
type CreateUserInput struct {
	Username  string
	Email     string
	Phone     string
	Role      string // empty defaults to patron
	IPAddress string
}

// UserDetail is the full user view: the user, their unreturned loans, and
// the summed potential fines of the ones currently overdue.
type UserDetail struct {
	User           domain.User
	ActiveLoans    []domain.Loan
	PotentialFines float64
}

// UserService defines user management use cases.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*UserDetail, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
