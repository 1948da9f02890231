// Package certs obtains, caches and renews the certificates served by the
// secure listener.
//
// # Architecture
//
//   - Issuer: obtains a certificate for a domain. ACMEIssuer wraps
//     autocert with HTTP-01; FileIssuer serves a static PEM pair.
//   - Orchestrator: holds one atomic cell per domain, bootstraps them
//     before the secure listener starts and refreshes them in the
//     background. TLS handshakes read the cells without locking.
//   - SQLiteCache: an autocert.Cache for deployments that prefer a single
//     database file over the directory layout.
//
// # Lifecycle
//
//	orch, closer, err := certs.FromConfig(cfg, collector, logger)
//	defer closer.Close()
//
//	if err := orch.Bootstrap(ctx); err != nil {
//	    return err // fatal: some domain has no certificate
//	}
//	srv.TLSConfig = orch.TLSConfig()
//	go orch.Run(ctx) // cron schedule + file watcher
//
// A refresh that fails keeps the previous certificate in place, so an
// expiring certificate keeps serving until a later refresh succeeds.
package certs
