// Package server runs the edge listeners as one unit and shuts them down
// together.
//
// # Modes
//
// With a certificate orchestrator (ACME or a static pair) the server binds
// three listeners:
//
//   - http_listen: ACME HTTP-01 challenges, redirect to HTTPS otherwise
//   - https_listen: the secure router (routes, /healthz, /)
//   - telemetry.metrics.listen (optional): /metrics and /readyz
//
// Without one it serves the secure router in plain HTTP on http_listen,
// which is meant for local development.
//
// # Startup
//
// Every listener is bound before any certificate work, so a port conflict
// fails fast. The plaintext listener starts serving first because the CA
// must be able to reach the challenge responder during bootstrap. The
// secure listener starts only after every domain has a certificate.
//
//	srv, err := server.New(cfg, server.Options{
//	    Certificates: orch,
//	    Metrics:      collector,
//	    Tracer:       tracer,
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx) // nil after a graceful stop
//
// Listeners, the renewal task and the shutdown watcher share one errgroup.
// When any of them fails the others are shut down within
// server.shutdown_timeout.
package server
