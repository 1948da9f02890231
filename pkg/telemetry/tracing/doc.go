// Package tracing provides OpenTelemetry distributed tracing for the edge server.
//
// # Overview
//
// The forwarder extracts W3C Trace Context from inbound requests, wraps each
// upstream round trip in a "proxy.forward" client span and injects the
// resulting context into the outbound request:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// Spans are exported over OTLP gRPC. When tracing is disabled a noop tracer
// is used; inbound trace context is still forwarded unchanged.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx := tracing.Extract(r.Context(), r.Header)
//	ctx, span := tracer.Start(ctx, "proxy.forward")
//	defer span.End()
//	tracing.Inject(ctx, outbound.Header)
package tracing
