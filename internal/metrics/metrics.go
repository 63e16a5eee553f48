package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

var (
	// AuthRequests counts auth flows by operation and outcome (ok, rejected, error).
	AuthRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "auth", Name: "requests_total",
		Help: "Auth operations by outcome",
	}, []string{"operation", "outcome"})

	IssuedTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "auth", Name: "issued_tokens_total",
		Help: "Signed tokens by type",
	}, []string{"type"})

	BlacklistedTokens = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "auth", Name: "blacklisted_tokens_total",
		Help: "Access tokens blacklisted at logout",
	})

	EmailCodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "email", Name: "verification_codes_total",
		Help: "Verification codes by stage (sent, verified, rejected)",
	}, []string{"stage"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
		Help:    "HTTP request latency by route pattern and status class",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
