package middleware

import (
	"log/slog"
	"net/http"
)

// Chain wraps handler with the standard stack:
//
//	Recovery(RequestID(Logging(handler)))
//
// RequestID runs before Logging so every access log line carries the ID.
func Chain(handler http.Handler, logger *slog.Logger) http.Handler {
	handler = LoggingMiddleware(logger)(handler)
	handler = RequestIDMiddleware(handler)
	return RecoveryMiddleware(handler)
}
