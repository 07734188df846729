package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backend /result latency in seconds
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inboxdash_backend_request_duration_seconds",
			Help:    "Backend /result request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
		},
		[]string{"outcome"},
	)

	// Sync attempts by outcome: success, not_authenticated, server_error, unreachable
	SyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inboxdash_sync_total",
			Help: "Total number of dashboard sync attempts",
		},
		[]string{"outcome"},
	)

	// Syncs refused by the rate limiter
	SyncRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inboxdash_sync_rate_limited_total",
			Help: "Total number of sync requests rejected by the rate limiter",
		},
	)

	// Emails in the last successful sync, per category slug
	SyncedEmails = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inboxdash_synced_emails",
			Help: "Number of emails per category in the most recent successful sync",
		},
		[]string{"category"},
	)
)
