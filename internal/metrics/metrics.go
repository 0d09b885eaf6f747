package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EnrollmentDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrar_enrollment_decisions_total",
			Help: "Enrollment proposals by outcome",
		},
		[]string{"outcome"},
	)

	AssignmentDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrar_assignment_decisions_total",
			Help: "Course assignment proposals by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registrar_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

// Outcome labels for decision counters.
const (
	OutcomeAccepted = "accepted"
	OutcomeError    = "error"
)
