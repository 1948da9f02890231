package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Custom attribute keys use the "luciuz.*" namespace.
const (
	AttrRoute     = "luciuz.route"
	AttrUpstream  = "luciuz.upstream"
	AttrRequestID = "luciuz.request_id"
	AttrDomain    = "luciuz.domain"

	AttrHTTPMethod = "http.request.method"
	AttrHTTPStatus = "http.response.status_code"
)

// SetForwardAttributes annotates a forwarding span.
func SetForwardAttributes(span trace.Span, route, upstream, method, requestID string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRoute, route),
		attribute.String(AttrUpstream, upstream),
		attribute.String(AttrHTTPMethod, method),
	}
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	span.SetAttributes(attrs...)
}

// SetStatusCode records the status returned to the client.
func SetStatusCode(span trace.Span, status int) {
	span.SetAttributes(attribute.Int(AttrHTTPStatus, status))
}
