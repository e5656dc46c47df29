package domain

import (
	"math"
	"time"
)

// Fine policy: a flat rate per full day overdue, capped at MaxFine.
// ReturnLoan persists the result; the overdue projection reuses the same
// functions so both sides always agree.
const (
	DailyFineRate = 0.50
	MaxFine       = 25.00
)

// DaysOverdue returns the number of full 24h days between due and now,
// never negative.
func DaysOverdue(due, now time.Time) int {
	if !now.After(due) {
		return 0
	}
	return int(now.Sub(due) / (24 * time.Hour))
}

// FineFor computes the capped fine for the given number of overdue days,
// rounded to two decimal places.
func FineFor(daysOverdue int) float64 {
	fine := float64(daysOverdue) * DailyFineRate
	if fine > MaxFine {
		fine = MaxFine
	}
	return math.Round(fine*100) / 100
}
