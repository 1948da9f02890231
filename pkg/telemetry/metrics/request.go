package metrics

import (
	"strconv"
	"time"

	"luciuz/edge/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks metrics related to request forwarding.
//
// Metrics:
//   - luciuz_requests_total: Total request count by route and status
//   - luciuz_upstream_duration_seconds: Upstream round-trip histogram
//   - luciuz_body_rejected_total: Requests refused for exceeding max_body_bytes
type RequestMetrics struct {
	// Total request count
	requestsTotal *prometheus.CounterVec

	// Upstream latency histogram
	upstreamDuration *prometheus.HistogramVec

	// Oversized bodies
	bodyRejected *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of proxied requests",
			},
			[]string{"route", "status"},
		),

		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_duration_seconds",
				Help:      "Duration of upstream round trips in seconds",
				Buckets:   cfg.UpstreamDurationBuckets,
			},
			[]string{"route"},
		),

		bodyRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "body_rejected_total",
				Help:      "Total number of requests rejected for exceeding the body limit",
			},
			[]string{"route"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		rm.requestsTotal,
		rm.upstreamDuration,
		rm.bodyRejected,
	)

	return rm
}

// RecordRequest increments the request counter and, when the upstream was
// contacted, observes its latency.
func (rm *RequestMetrics) RecordRequest(route string, status int, upstream time.Duration) {
	rm.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

	if upstream > 0 {
		rm.upstreamDuration.WithLabelValues(route).Observe(upstream.Seconds())
	}
}

// RecordBodyRejected increments the oversized-body counter.
func (rm *RequestMetrics) RecordBodyRejected(route string) {
	rm.bodyRejected.WithLabelValues(route).Inc()
}
