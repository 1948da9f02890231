package certs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/crypto/acme"
	"golang.org/x/crypto/acme/autocert"

	"luciuz/edge/pkg/config"
	"luciuz/edge/pkg/telemetry/metrics"
)

// ErrNoCertificateSource is returned by FromConfig when neither ACME nor a
// static certificate pair is configured.
var ErrNoCertificateSource = errors.New("no certificate source configured")

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FromConfig builds the issuer and orchestrator described by cfg. The
// returned closer releases the certificate cache and must be called after
// the orchestrator stops.
func FromConfig(cfg *config.Config, collector *metrics.Collector, logger *slog.Logger) (*Orchestrator, io.Closer, error) {
	switch {
	case cfg.ACME.Enabled:
		return fromACME(cfg, collector, logger)
	case cfg.TLS.Enabled():
		return fromFiles(cfg, collector, logger)
	default:
		return nil, nil, ErrNoCertificateSource
	}
}

func fromACME(cfg *config.Config, collector *metrics.Collector, logger *slog.Logger) (*Orchestrator, io.Closer, error) {
	a := cfg.ACME

	if err := os.MkdirAll(a.CacheDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create acme cache dir: %w", err)
	}

	var (
		cache    autocert.Cache
		closer   io.Closer = nopCloser{}
		watchDir string
	)
	switch a.Cache.Kind {
	case config.CacheKindSQLite:
		sc, err := NewSQLiteCache(a.Cache.Driver, a.Cache.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite certificate cache: %w", err)
		}
		cache, closer = sc, sc
	default:
		cache = autocert.DirCache(a.CacheDir)
		watchDir = a.CacheDir
	}

	issuer, err := NewACMEIssuer(ACMEIssuerConfig{
		Domains:      a.Domains,
		Email:        a.Email,
		DirectoryURL: DirectoryURL(a),
		RenewBefore:  a.RenewBefore,
		Cache:        cache,
		CacheDir:     watchDir,
	})
	if err != nil {
		closer.Close()
		return nil, nil, err
	}

	orch, err := New(issuer, Options{
		Domains:          a.Domains,
		RenewBefore:      a.RenewBefore,
		Schedule:         a.RenewSchedule,
		BootstrapTimeout: a.BootstrapTimeout,
		Metrics:          collector,
		Logger:           logger,
	})
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return orch, closer, nil
}

func fromFiles(cfg *config.Config, collector *metrics.Collector, logger *slog.Logger) (*Orchestrator, io.Closer, error) {
	issuer, err := NewFileIssuer(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	if err != nil {
		return nil, nil, err
	}

	domains := cfg.ACME.Domains
	if len(domains) == 0 {
		domains = []string{cfg.Challenge.DefaultHost}
	}

	orch, err := New(issuer, Options{
		Domains:          domains,
		RenewBefore:      cfg.ACME.RenewBefore,
		Schedule:         cfg.ACME.RenewSchedule,
		BootstrapTimeout: cfg.ACME.BootstrapTimeout,
		Metrics:          collector,
		Logger:           logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return orch, nopCloser{}, nil
}

// DirectoryURL resolves the ACME directory: an explicit directory_url,
// else Let's Encrypt production or staging according to prod.
func DirectoryURL(a config.ACMEConfig) string {
	switch {
	case a.DirectoryURL != "":
		return a.DirectoryURL
	case a.Prod:
		return acme.LetsEncryptURL
	default:
		return LetsEncryptStagingURL
	}
}
