package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before due date", due.Add(-48 * time.Hour), 0},
		{"exactly at due date", due, 0},
		{"a few hours late", due.Add(5 * time.Hour), 0},
		{"one full day late", due.Add(24 * time.Hour), 1},
		{"almost two days late", due.Add(47 * time.Hour), 1},
		{"twenty days late", due.Add(20 * 24 * time.Hour), 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DaysOverdue(due, tc.now))
		})
	}
}

func TestFineFor(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{0, 0.00},
		{1, 0.50},
		{10, 5.00},
		{49, 24.50},
		{50, 25.00},
		{51, 25.00},
		{1000, 25.00},
	}

	for _, tc := range tests {
		assert.InDelta(t, tc.want, FineFor(tc.days), 0.0001, "days=%d", tc.days)
	}
}

func TestFineForNeverExceedsCap(t *testing.T) {
	for days := 0; days <= 120; days++ {
		fine := FineFor(days)
		assert.GreaterOrEqual(t, fine, 0.0)
		assert.LessOrEqual(t, fine, MaxFine)
	}
}
