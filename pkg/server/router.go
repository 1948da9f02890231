package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"luciuz/edge/pkg/challenge"
	"luciuz/edge/pkg/proxy/middleware"
)

// Built-in responses on the secure router.
const (
	HealthPath = "/healthz"
	HealthBody = "ok"
	RootBody   = "luciuz: running"
)

// SecureHandler serves the configured prefixes and the built-ins. Route
// patterns are registered first for every method, then GET /healthz and
// GET / replace the GET entries, so a "/" route still receives POST /.
// Anything unmatched reaches the forwarder, which answers 404.
func (s *Server) SecureHandler() http.Handler {
	r := chi.NewRouter()

	for _, route := range s.table.Routes() {
		for _, pattern := range s.table.Patterns(route) {
			r.Handle(pattern, s.forwarder)
		}
	}

	r.Get(HealthPath, plainText(HealthBody))
	r.Get("/", plainText(RootBody))

	r.NotFound(s.forwarder.ServeHTTP)
	r.MethodNotAllowed(s.forwarder.ServeHTTP)

	return middleware.Chain(r, s.logger)
}

// PlainHandler answers ACME challenges and redirects everything else.
func (s *Server) PlainHandler() http.Handler {
	var responder http.Handler
	if s.orch != nil {
		responder = s.orch.ChallengeHandler()
	}
	h := challenge.New(responder, challenge.Options{
		DefaultHost:    s.cfg.Challenge.DefaultHost,
		RedirectStatus: s.cfg.Challenge.RedirectStatus,
	})
	return middleware.Chain(h, s.logger)
}

// MetricsHandler serves the Prometheus registry and the readiness probe.
func (s *Server) MetricsHandler() http.Handler {
	r := chi.NewRouter()
	path := s.cfg.Telemetry.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	r.Method(http.MethodGet, path, s.collector.Handler())
	r.Get("/readyz", s.checker.ReadinessHandler())
	return r
}

func plainText(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}
