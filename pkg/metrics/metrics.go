package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planora_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// RemindersSent counts reminder notifications delivered by type.
	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planora_reminders_sent_total",
			Help: "Total number of trip reminder notifications sent",
		},
		[]string{"type"},
	)

	// RemindersSkipped counts reminders suppressed because one was already sent.
	RemindersSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planora_reminders_skipped_total",
			Help: "Total number of duplicate reminders suppressed",
		},
		[]string{"type"},
	)

	// ReminderFailures counts trips the reminder run could not process.
	ReminderFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planora_reminder_failures_total",
			Help: "Total number of trips that failed during a reminder run",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planora_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
