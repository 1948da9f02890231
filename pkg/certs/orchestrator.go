package certs

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"luciuz/edge/pkg/config"
	"luciuz/edge/pkg/telemetry/logging"
	"luciuz/edge/pkg/telemetry/metrics"
)

// ErrNoCertificate is returned by GetCertificate before any certificate has
// been loaded.
var ErrNoCertificate = errors.New("no certificate available")

// Options configures an Orchestrator.
type Options struct {
	// Domains to keep certificates for. The first one is the fallback for
	// handshakes with unknown or missing SNI. Required.
	Domains []string

	// RenewBefore is the window before expiry in which a refresh reports
	// IssuanceStarted.
	// Default: config.DefaultACMERenewBefore
	RenewBefore time.Duration

	// Schedule is the cron expression driving Refresh in Run.
	// Default: config.DefaultACMERenewSchedule
	Schedule string

	// BootstrapTimeout bounds Bootstrap.
	// Default: config.DefaultACMEBootstrapTimeout
	BootstrapTimeout time.Duration

	// WatchDir overrides the directory watched in Run. When empty the
	// issuer's WatchDir is used if it implements WatchedIssuer.
	WatchDir string

	// DebounceInterval delays watcher-triggered refreshes.
	// Default: DefaultDebounceInterval
	DebounceInterval time.Duration

	// Metrics receives lifecycle events and certificate expiry. May be nil.
	Metrics *metrics.Collector

	// Logger defaults to the "certs" component logger.
	Logger *slog.Logger
}

// Orchestrator owns the active certificate of every domain. Handshakes read
// it without locks; only Bootstrap and Refresh replace it.
type Orchestrator struct {
	issuer  Issuer
	opts    Options
	domains []string
	cells   map[string]*atomic.Pointer[tls.Certificate]
	events  chan Event
	group   singleflight.Group
	logger  *slog.Logger
}

// New creates an Orchestrator. The cell map is fixed here and never changes.
func New(issuer Issuer, opts Options) (*Orchestrator, error) {
	if issuer == nil {
		return nil, errors.New("certs: issuer is required")
	}
	if len(opts.Domains) == 0 {
		return nil, errors.New("certs: at least one domain is required")
	}
	if opts.RenewBefore <= 0 {
		opts.RenewBefore = config.DefaultACMERenewBefore
	}
	if opts.Schedule == "" {
		opts.Schedule = config.DefaultACMERenewSchedule
	}
	if opts.BootstrapTimeout <= 0 {
		opts.BootstrapTimeout = config.DefaultACMEBootstrapTimeout
	}
	if opts.WatchDir == "" {
		if w, ok := issuer.(WatchedIssuer); ok {
			opts.WatchDir = w.WatchDir()
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Component("certs")
	}

	o := &Orchestrator{
		issuer: issuer,
		opts:   opts,
		cells:  make(map[string]*atomic.Pointer[tls.Certificate], len(opts.Domains)),
		events: make(chan Event, eventBuffer),
		logger: logger,
	}
	for _, d := range opts.Domains {
		name := normalizeName(d)
		if _, dup := o.cells[name]; dup {
			continue
		}
		o.domains = append(o.domains, name)
		o.cells[name] = new(atomic.Pointer[tls.Certificate])
	}

	return o, nil
}

// Domains returns the managed domains in configuration order.
func (o *Orchestrator) Domains() []string {
	out := make([]string, len(o.domains))
	copy(out, o.domains)
	return out
}

// Bootstrap obtains a certificate for every domain before the secure
// listener starts. Any failure is returned with the domain it concerns.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.opts.BootstrapTimeout)
	defer cancel()

	for _, domain := range o.domains {
		o.emit(Event{Kind: IssuanceStarted, Domain: domain})

		cert, err := o.issuer.Obtain(ctx, domain)
		if err != nil {
			o.emit(Event{Kind: IssuanceFailed, Domain: domain, Err: err})
			return fmt.Errorf("bootstrap certificate for %s: %w", domain, err)
		}
		if err := o.install(domain, cert); err != nil {
			o.emit(Event{Kind: IssuanceFailed, Domain: domain, Err: err})
			return fmt.Errorf("bootstrap certificate for %s: %w", domain, err)
		}
	}

	o.logger.Info("certificates ready", "domains", strings.Join(o.domains, ","))
	return nil
}

// Refresh asks the issuer for each domain's certificate and installs any
// new leaf. A failing domain keeps its current certificate. Concurrent
// callers share one run.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	_, err, _ := o.group.Do("refresh", func() (interface{}, error) {
		return nil, o.refresh(ctx)
	})
	return err
}

func (o *Orchestrator) refresh(ctx context.Context) error {
	var errs []error

	for _, domain := range o.domains {
		current := o.cells[domain].Load()
		if current == nil || o.dueForRenewal(current) {
			o.emit(Event{Kind: IssuanceStarted, Domain: domain})
		}

		cert, err := o.issuer.Obtain(ctx, domain)
		if err != nil {
			o.emit(Event{Kind: IssuanceFailed, Domain: domain, Err: err})
			errs = append(errs, fmt.Errorf("refresh certificate for %s: %w", domain, err))
			continue
		}

		if current != nil && sameLeaf(current, cert) {
			continue
		}
		if err := o.install(domain, cert); err != nil {
			o.emit(Event{Kind: IssuanceFailed, Domain: domain, Err: err})
			errs = append(errs, fmt.Errorf("refresh certificate for %s: %w", domain, err))
		}
	}

	return errors.Join(errs...)
}

// install validates cert and swaps it into the domain's cell.
func (o *Orchestrator) install(domain string, cert *tls.Certificate) error {
	leaf, err := Leaf(cert)
	if err != nil {
		return err
	}
	if cert.Leaf == nil {
		// Copy so the issuer's value is not mutated.
		c := *cert
		c.Leaf = leaf
		cert = &c
	}

	o.cells[domain].Store(cert)
	o.opts.Metrics.SetCertificateExpiry(domain, leaf.NotAfter)
	o.emit(Event{Kind: IssuanceCompleted, Domain: domain, NotAfter: leaf.NotAfter})
	return nil
}

func (o *Orchestrator) dueForRenewal(cert *tls.Certificate) bool {
	leaf, err := Leaf(cert)
	if err != nil {
		return true
	}
	return time.Until(leaf.NotAfter) < o.opts.RenewBefore
}

// Run drives Refresh from the cron schedule and from file changes, and
// reports lifecycle events. Refresh errors are logged, never returned.
// Run returns nil when ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(o.opts.Schedule, func() { o.refreshAndLog(ctx, "schedule") }); err != nil {
		return fmt.Errorf("invalid renew schedule %q: %w", o.opts.Schedule, err)
	}
	c.Start()
	defer func() {
		<-c.Stop().Done()
	}()

	if o.opts.WatchDir != "" {
		dw, err := newDirWatcher(o.opts.WatchDir, o.opts.DebounceInterval, o.logger)
		if err != nil {
			o.logger.Warn("certificate watcher disabled", "path", o.opts.WatchDir, "error", err)
		} else {
			go dw.run(ctx, func() { o.refreshAndLog(ctx, "watcher") })
		}
	}

	o.logger.Info("certificate renewal started",
		"schedule", o.opts.Schedule,
		"renew_before", o.opts.RenewBefore.String(),
		"watch_dir", o.opts.WatchDir,
	)

	for {
		select {
		case <-ctx.Done():
			o.drainEvents()
			o.logger.Info("certificate renewal stopped")
			return nil
		case e := <-o.events:
			o.report(e)
		}
	}
}

func (o *Orchestrator) refreshAndLog(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	o.logger.Debug("refreshing certificates", "trigger", trigger)
	if err := o.Refresh(ctx); err != nil {
		o.logger.Error("certificate refresh failed", "trigger", trigger, "error", err)
	}
}

// emit queues e for Run. When the buffer is full the event is reported
// inline so that nothing is lost.
func (o *Orchestrator) emit(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	select {
	case o.events <- e:
	default:
		o.report(e)
	}
}

func (o *Orchestrator) drainEvents() {
	for {
		select {
		case e := <-o.events:
			o.report(e)
		default:
			return
		}
	}
}

func (o *Orchestrator) report(e Event) {
	o.opts.Metrics.RecordCertificateEvent(e.Domain, string(e.Kind))

	switch e.Kind {
	case IssuanceStarted:
		o.logger.Info("certificate issuance started", "domain", e.Domain)
	case IssuanceCompleted:
		o.logger.Info("certificate issued",
			"domain", e.Domain,
			"expires_at", e.NotAfter.Format(time.RFC3339),
		)
	case IssuanceFailed:
		o.logger.Error("certificate issuance failed", "domain", e.Domain, "error", e.Err)
	}
}

// GetCertificate implements tls.Config.GetCertificate. It never blocks.
func (o *Orchestrator) GetCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	if hello != nil {
		if cell, ok := o.cells[normalizeName(hello.ServerName)]; ok {
			if cert := cell.Load(); cert != nil {
				return cert, nil
			}
		}
	}
	if cert := o.cells[o.domains[0]].Load(); cert != nil {
		return cert, nil
	}
	return nil, ErrNoCertificate
}

// Certificate returns the active certificate for domain, or nil.
func (o *Orchestrator) Certificate(domain string) *tls.Certificate {
	cell, ok := o.cells[normalizeName(domain)]
	if !ok {
		return nil
	}
	return cell.Load()
}

// Ready returns an error naming the first domain without a certificate.
func (o *Orchestrator) Ready() error {
	for _, domain := range o.domains {
		if o.cells[domain].Load() == nil {
			return fmt.Errorf("no certificate for %s", domain)
		}
	}
	return nil
}

// TLSConfig returns a server config that takes certificates from o.
func (o *Orchestrator) TLSConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: o.GetCertificate,
		NextProtos:     []string{"h2", "http/1.1"},
		MinVersion:     tls.VersionTLS12,
	}
}

// ChallengeHandler returns the issuer's HTTP-01 responder, or nil.
func (o *Orchestrator) ChallengeHandler() http.Handler {
	return o.issuer.ChallengeHandler()
}

func normalizeName(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".")
}

func sameLeaf(a, b *tls.Certificate) bool {
	if len(a.Certificate) == 0 || len(b.Certificate) == 0 {
		return false
	}
	return bytes.Equal(a.Certificate[0], b.Certificate[0])
}
