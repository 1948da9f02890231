package metrics

import (
	"time"

	"luciuz/edge/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CertificateMetrics tracks the certificate lifecycle.
//
// Metrics:
//   - luciuz_certificate_events_total: Issuance events by domain and kind
//   - luciuz_certificate_expiry_seconds: Unix expiry time of the active certificate
type CertificateMetrics struct {
	eventsTotal *prometheus.CounterVec
	expiry      *prometheus.GaugeVec
}

// NewCertificateMetrics creates and registers certificate metrics.
func NewCertificateMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CertificateMetrics {
	cm := &CertificateMetrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "certificate_events_total",
				Help:      "Total number of certificate issuance events",
			},
			[]string{"domain", "kind"},
		),

		expiry: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "certificate_expiry_seconds",
				Help:      "Expiry of the active certificate as a Unix timestamp",
			},
			[]string{"domain"},
		),
	}

	registry.MustRegister(cm.eventsTotal, cm.expiry)

	return cm
}

// RecordEvent increments the event counter.
func (cm *CertificateMetrics) RecordEvent(domain, kind string) {
	cm.eventsTotal.WithLabelValues(domain, kind).Inc()
}

// SetExpiry sets the expiry gauge.
func (cm *CertificateMetrics) SetExpiry(domain string, notAfter time.Time) {
	cm.expiry.WithLabelValues(domain).Set(float64(notAfter.Unix()))
}
