package proxy

import (
	"fmt"
	"io"
	"net/http"
)

// ErrorKind classifies a forwarding failure. Each kind maps to one status
// code and one fixed response body.
type ErrorKind string

const (
	// KindPayloadTooLarge means the request body exceeded MaxBodyBytes.
	KindPayloadTooLarge ErrorKind = "payload_too_large"

	// KindBadGateway means the upstream could not be reached or answered
	// with something that cannot be relayed.
	KindBadGateway ErrorKind = "bad_gateway"

	// KindGatewayTimeout means the upstream did not answer before the deadline.
	KindGatewayTimeout ErrorKind = "gateway_timeout"

	// KindNoRoute means no route covers the request path.
	KindNoRoute ErrorKind = "no_route"
)

// Status returns the HTTP status code for the kind.
func (k ErrorKind) Status() int {
	switch k {
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindGatewayTimeout:
		return http.StatusGatewayTimeout
	case KindNoRoute:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// Body returns the plain-text response body for the kind.
func (k ErrorKind) Body() string {
	switch k {
	case KindPayloadTooLarge:
		return "payload too large"
	case KindGatewayTimeout:
		return "gateway timeout"
	case KindNoRoute:
		return "no route"
	default:
		return "bad gateway"
	}
}

// ForwardError is returned by a failed forwarding attempt. Err holds the
// internal cause and is logged, never sent to the client.
type ForwardError struct {
	Kind ErrorKind
	Err  error
}

// Error implements the error interface.
func (e *ForwardError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("proxy: %s", e.Kind)
	}
	return fmt.Sprintf("proxy: %s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ForwardError) Unwrap() error {
	return e.Err
}

func newForwardError(kind ErrorKind, err error) *ForwardError {
	return &ForwardError{Kind: kind, Err: err}
}

// writeError writes the fixed status and body for kind.
func writeError(w http.ResponseWriter, kind ErrorKind) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(kind.Status())
	io.WriteString(w, kind.Body())
}
