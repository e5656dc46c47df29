package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// UserService implements user registration and lookup.
type UserService struct {
	users  ports.UserRepository
	loans  ports.LoanRepository
	audit  ports.AuditService
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, loans ports.LoanRepository, audit ports.AuditService, logger zerolog.Logger) *UserService {
	return &UserService{users: users, loans: loans, audit: audit, logger: logger}
}

// CreateUser registers a new patron or librarian. Username, email and phone
// must each be unique; a collision fails with domain.ErrDuplicateUser.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RolePatron
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Username:  input.Username,
		Email:     input.Email,
		Phone:     input.Phone,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	recordAudit(ctx, s.audit, s.logger, ports.RecordInput{
		Action:     domain.ActionCreateUser,
		EntityType: domain.EntityUser,
		EntityID:   user.ID,
		Details:    map[string]any{"username": user.Username, "role": user.Role},
		IPAddress:  ipRef(input.IPAddress),
	})

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("user created")

	return user, nil
}

// GetUser returns the user together with their unreturned loans and the
// summed potential fines of the ones currently overdue.
func (s *UserService) GetUser(ctx context.Context, id string) (*ports.UserDetail, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	active, err := s.loans.ListActiveForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: active loans: %w", err)
	}

	now := time.Now().UTC()
	var total float64
	for entry := range domain.OverdueLoans(active, now) {
		total += entry.PotentialFine
	}

	return &ports.UserDetail{
		User:           *user,
		ActiveLoans:    active,
		PotentialFines: math.Round(total*100) / 100,
	}, nil
}

// ListUsers returns all registered users.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
