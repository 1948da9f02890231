// Package middleware provides HTTP middleware for cross-cutting concerns on
// the secure listener.
//
// # Middleware Chain
//
//	handler = Recovery(RequestID(Logging(handler)))
//
// Order (innermost to outermost):
//  1. Logging: Log request/response with method, path, status, latency
//  2. RequestID: Assign a request ID, add it to context and response headers
//  3. Recovery: Recover from panics, return a plain-text 500
//
// Chain builds this stack.
package middleware
