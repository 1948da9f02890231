// Package health implements the readiness probe served on the metrics
// listener.
//
// Components register named checks; the probe runs them concurrently, each
// bounded by the checker's timeout, and answers 200 when every check passes
// and 503 otherwise.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("certificates", func(ctx context.Context) error {
//	    return orch.Ready()
//	})
//	r.Get("/readyz", checker.ReadinessHandler())
//
// The liveness answer on the secure listener ("/healthz") is a fixed "ok"
// and does not go through this package.
package health
