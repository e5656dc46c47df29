package handler

import (
	"github.com/openshelf/library-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=patron librarian"`
}

// userDetailResponse is the full user view: user fields flattened, plus the
// user's unreturned loans and the summed potential fines of the overdue ones.
type userDetailResponse struct {
	domain.User
	ActiveLoans    []domain.Loan `json:"active_loans"`
	PotentialFines float64       `json:"potential_fines"`
}
