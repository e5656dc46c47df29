package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// Create must report unique violations on username, email or phone as
// domain.ErrDuplicateUser.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
