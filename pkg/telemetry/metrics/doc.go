// Package metrics provides Prometheus metrics collection for the edge server.
//
// # Metrics Categories
//
//   - Request Metrics: request count by route and status, upstream latency,
//     oversized bodies
//   - Certificate Metrics: issuance events and active certificate expiry
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordRequest("/api", 200, 35*time.Millisecond)
//	collector.RecordCertificateEvent("luciuz.com", "completed")
//
//	mux.Handle("/metrics", collector.Handler())
//
// Every metric is registered on the collector's own registry rather than the
// Prometheus default registry.
package metrics
