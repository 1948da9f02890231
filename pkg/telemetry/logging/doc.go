// Package logging provides structured logging for the edge server.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Context-aware logging with request IDs, routes and trace IDs
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.Init(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	log := logging.Component("certs")
//	log.Info("certificate issued", "domain", "luciuz.com")
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	log.InfoContext(ctx, "forwarded") // includes request_id
package logging
