package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tasktracker", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tasktracker", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tasktracker", Name: "auth_failures_total", Help: "Requests rejected by the auth gate, by reason."},
		[]string{"reason"},
	)
	RemoteCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tasktracker", Name: "remote_calls_total", Help: "Inter-service calls by target and outcome."},
		[]string{"target", "outcome"},
	)
	RemoteCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "tasktracker", Name: "remote_call_duration_seconds", Help: "Latency of inter-service calls.", Buckets: prometheus.DefBuckets},
		[]string{"target"},
	)
	TaskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tasktracker", Name: "task_transitions_total", Help: "Task status changes by resulting status."},
		[]string{"status"},
	)
	SubmissionDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tasktracker", Name: "submission_decisions_total", Help: "Submission status changes by resulting status."},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// RegisterCollectors registers every collector with reg. Repeat calls are no-ops so
// tests can build several engines in one process.
func RegisterCollectors(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(RateLimitAllowed, RateLimitRejected, AuthFailures, RemoteCalls,
			RemoteCallDuration, TaskTransitions, SubmissionDecisions)
	})
}
