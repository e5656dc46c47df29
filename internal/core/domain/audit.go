package domain

import (
	"errors"
	"time"
)

// Audit actions recorded by the system.
const (
	ActionCreateUser = "CREATE_USER"
	ActionCreateBook = "CREATE_BOOK"
	ActionUpdateBook = "UPDATE_BOOK"
	ActionCreateLoan = "CREATE_LOAN"
	ActionReturnBook = "RETURN_BOOK"
)

// Entity types referenced by audit entries.
const (
	EntityUser = "User"
	EntityBook = "Book"
	EntityLoan = "Loan"
)

var ErrAuditEntryNotFound = errors.New("audit entry not found")
var ErrAuditMissingFields = errors.New("audit entry requires action, entity type and entity id")

// AuditLog is an immutable record of a state-changing action. Entries are
// append-only: they are never updated or deleted.
type AuditLog struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	UserID     *string        `json:"user_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  *string        `json:"ip_address,omitempty"`
}
