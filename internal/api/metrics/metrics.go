// Package metrics defines and registers all custom Prometheus metrics for
// the library system. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// LoansCreatedTotal counts successfully created loans.
var LoansCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_created_total",
		Help:      "Total number of loans created.",
	},
)

// LoanReplaysTotal counts loan creations answered from an idempotency-key
// match instead of creating a new loan.
var LoanReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loan_idempotent_replays_total",
		Help:      "Total number of loan creations replayed via Idempotency-Key.",
	},
)

// LoansReturnedTotal counts returned loans.
// Label:
//   - overdue: "true" when the book came back past its due date
var LoansReturnedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_returned_total",
		Help:      "Total number of loans returned, by overdue state.",
	},
	[]string{"overdue"},
)

// FineAmounts observes the fine assessed on each return (0 for on-time
// returns). The top bucket matches the fine cap.
var FineAmounts = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "loan_fine_amount",
		Help:      "Fine amounts assessed on loan returns.",
		Buckets:   prometheus.LinearBuckets(0, 5, 6), // 0, 5, 10, 15, 20, 25
	},
)

// AuditRecordsTotal counts appended audit entries.
// Label:
//   - action: the recorded action (e.g. "CREATE_LOAN")
var AuditRecordsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_records_total",
		Help:      "Total number of audit entries appended, by action.",
	},
	[]string{"action"},
)

// AuditFailuresTotal counts audit writes that failed. Audit writes are
// best-effort; failures never roll back the primary mutation but must stay
// visible.
var AuditFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_failures_total",
		Help:      "Total number of failed audit entry writes.",
	},
)
