package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"luciuz/edge/pkg/certs"
	"luciuz/edge/pkg/config"
	"luciuz/edge/pkg/proxy"
	"luciuz/edge/pkg/routing"
	"luciuz/edge/pkg/telemetry/health"
	"luciuz/edge/pkg/telemetry/logging"
	"luciuz/edge/pkg/telemetry/metrics"
	"luciuz/edge/pkg/telemetry/tracing"
)

// Listener names accepted by Addr.
const (
	ListenerHTTP    = "http"
	ListenerHTTPS   = "https"
	ListenerMetrics = "metrics"
)

// Options carries the collaborators built by the caller.
type Options struct {
	// Certificates enables the dual-listener mode. When nil the secure
	// router is served in plain HTTP on server.http_listen.
	Certificates *certs.Orchestrator

	// Client is the shared upstream client. Nil uses proxy.NewClient.
	Client *http.Client

	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Logger  *slog.Logger
}

// Server runs the plaintext, secure and metrics listeners as one unit.
type Server struct {
	cfg       *config.Config
	orch      *certs.Orchestrator
	collector *metrics.Collector
	checker   *health.Checker
	logger    *slog.Logger

	table     *routing.Table
	forwarder *proxy.Forwarder

	mu      sync.Mutex
	running bool
	addrs   map[string]net.Addr
	ready   chan struct{}
}

// New builds the route table and forwarder from cfg.
func New(cfg *config.Config, opts Options) (*Server, error) {
	table, err := tableFromConfig(cfg.Proxy.Routes)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Component("server")
	}

	s := &Server{
		cfg:       cfg,
		orch:      opts.Certificates,
		collector: opts.Metrics,
		checker:   health.New(0),
		logger:    logger,
		table:     table,
		forwarder: proxy.NewForwarder(opts.Client, table, proxy.Options{
			MaxBodyBytes: cfg.Proxy.MaxBodyBytes,
			Timeout:      cfg.Proxy.UpstreamTimeout,
			Metrics:      opts.Metrics,
			Tracer:       opts.Tracer,
		}),
		addrs: make(map[string]net.Addr),
		ready: make(chan struct{}),
	}

	if s.orch != nil {
		s.checker.RegisterCheck("certificates", func(context.Context) error {
			return s.orch.Ready()
		})
	}

	return s, nil
}

func tableFromConfig(routes []config.RouteConfig) (*routing.Table, error) {
	out := make([]routing.Route, 0, len(routes))
	for _, r := range routes {
		out = append(out, routing.Route{Prefix: r.Prefix, Upstream: r.Upstream, Timeout: r.Timeout})
	}
	table, err := routing.NewTable(out)
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}
	return table, nil
}

// Secure reports whether the server terminates TLS.
func (s *Server) Secure() bool {
	return s.orch != nil
}

// Ready is closed once every listener is serving. In secure mode that is
// after the certificate bootstrap.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address of the named listener, or nil.
func (s *Server) Addr(name string) net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addrs[name]
}

type listener struct {
	name string
	ln   net.Listener
	srv  *http.Server
	tls  bool
}

// Run binds every listener, bootstraps certificates and serves until ctx is
// cancelled or any listener fails. It returns nil after a graceful stop.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	listeners, err := s.bind()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(listeners)
	})

	var secure *listener
	for _, l := range listeners {
		if l.tls {
			secure = l
			continue
		}
		g.Go(func() error { return s.serve(l) })
	}

	if secure == nil {
		close(s.ready)
	} else {
		g.Go(func() error {
			if err := s.orch.Bootstrap(gctx); err != nil {
				if ctx.Err() != nil {
					// Stopped during bootstrap.
					return nil
				}
				return err
			}
			g.Go(func() error { return s.orch.Run(gctx) })
			close(s.ready)
			return s.serve(secure)
		})
	}

	return g.Wait()
}

// bind opens every configured listener up front so that a port conflict
// fails the run before any certificate work starts.
func (s *Server) bind() ([]*listener, error) {
	type endpoint struct {
		name    string
		addr    string
		handler http.Handler
		tls     bool
	}

	var endpoints []endpoint
	if s.Secure() {
		endpoints = append(endpoints,
			endpoint{ListenerHTTP, s.cfg.Server.HTTPListen, s.PlainHandler(), false},
			endpoint{ListenerHTTPS, s.cfg.Server.HTTPSListen, s.SecureHandler(), true},
		)
	} else {
		endpoints = append(endpoints, endpoint{ListenerHTTP, s.cfg.Server.HTTPListen, s.SecureHandler(), false})
	}
	if addr := s.cfg.Telemetry.Metrics.Listen; addr != "" {
		endpoints = append(endpoints, endpoint{ListenerMetrics, addr, s.MetricsHandler(), false})
	}

	var bound []*listener
	for _, sp := range endpoints {
		ln, err := net.Listen("tcp", sp.addr)
		if err != nil {
			for _, l := range bound {
				l.ln.Close()
			}
			return nil, fmt.Errorf("bind %s listener on %s: %w", sp.name, sp.addr, err)
		}

		srv := s.newHTTPServer(sp.handler)
		if sp.tls {
			srv.TLSConfig = s.orch.TLSConfig()
		}
		bound = append(bound, &listener{name: sp.name, ln: ln, srv: srv, tls: sp.tls})

		s.mu.Lock()
		s.addrs[sp.name] = ln.Addr()
		s.mu.Unlock()
	}
	return bound, nil
}

func (s *Server) newHTTPServer(handler http.Handler) *http.Server {
	sc := s.cfg.Server
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       sc.ReadTimeout,
		ReadHeaderTimeout: sc.ReadHeaderTimeout,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
		MaxHeaderBytes:    sc.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
}

func (s *Server) serve(l *listener) error {
	s.logger.Info("listener started", "listener", l.name, "address", l.ln.Addr().String(), "tls", l.tls)

	var err error
	if l.tls {
		// Certificates come from TLSConfig.GetCertificate.
		err = l.srv.ServeTLS(l.ln, "", "")
	} else {
		err = l.srv.Serve(l.ln)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s listener: %w", l.name, err)
	}
	return nil
}

func (s *Server) shutdown(listeners []*listener) error {
	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, l := range listeners {
		if err := l.srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s listener shutdown: %w", l.name, err))
		}
		// A listener that never started serving is not closed by Shutdown.
		l.ln.Close()
	}
	return errors.Join(errs...)
}
