// Package telemetry groups the observability packages of the edge server.
//
// # Components
//
//   - logging: slog setup and request-scoped fields (request_id, route, trace_id)
//   - metrics: Prometheus collector for forwarded requests and certificate events
//   - tracing: OpenTelemetry tracer and W3C propagation for upstream calls
//   - health: readiness checks served on the metrics listener
//
// # Usage
//
//	logger, _ := logging.Init(logging.Config{Level: "info", Format: "json"})
//	defer logger.Close()
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing)
//	defer tracer.Shutdown(ctx)
//
// Each package is nil-safe where a component may be disabled: a nil
// *metrics.Collector and a nil *tracing.Tracer accept every call.
package telemetry
