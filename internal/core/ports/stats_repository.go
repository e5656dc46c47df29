package ports

import "context"

// Statistics is the snapshot reported by the health endpoint.
type Statistics struct {
	Users       int64 `json:"users"`
	Books       int64 `json:"books"`
	Loans       int64 `json:"loans"`
	ActiveLoans int64 `json:"active_loans"`
}

// StatsRepository collects entity counts for health reporting.
type StatsRepository interface {
	Collect(ctx context.Context) (*Statistics, error)
}
