package metrics

import (
	"time"

	"luciuz/edge/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultUpstreamDurationBuckets covers upstream latencies from 5ms to 30s.
var DefaultUpstreamDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Collector is the main orchestrator for all Prometheus metrics in the edge
// server. It owns a private registry and provides a unified interface for
// recording metrics across the forwarder and the certificate orchestrator.
//
// A nil *Collector, or one built from a disabled config, accepts every call
// and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Request metrics
	requestMetrics *RequestMetrics

	// Certificate metrics
	certificateMetrics *CertificateMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created so
// parallel tests and multiple servers never collide on the global one.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "luciuz",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.UpstreamDurationBuckets) == 0 {
		cfg.UpstreamDurationBuckets = DefaultUpstreamDurationBuckets
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	// Initialize metric subsystems
	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.certificateMetrics = NewCertificateMetrics(cfg, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordRequest records one forwarded request.
//
// Parameters:
//   - route: matched route prefix (e.g. "/api")
//   - status: status code returned to the client
//   - upstream: time spent waiting on the upstream; zero when it was never contacted
func (c *Collector) RecordRequest(route string, status int, upstream time.Duration) {
	if !c.enabled() {
		return
	}

	c.requestMetrics.RecordRequest(route, status, upstream)
}

// RecordBodyRejected records a request refused for exceeding the body limit.
func (c *Collector) RecordBodyRejected(route string) {
	if !c.enabled() {
		return
	}

	c.requestMetrics.RecordBodyRejected(route)
}

// RecordCertificateEvent records a certificate lifecycle event.
//
// Parameters:
//   - domain: certificate domain
//   - kind: "started", "completed" or "failed"
func (c *Collector) RecordCertificateEvent(domain, kind string) {
	if !c.enabled() {
		return
	}

	c.certificateMetrics.RecordEvent(domain, kind)
}

// SetCertificateExpiry records the absolute expiry time of the active
// certificate for domain.
func (c *Collector) SetCertificateExpiry(domain string, notAfter time.Time) {
	if !c.enabled() {
		return
	}

	c.certificateMetrics.SetExpiry(domain, notAfter)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
