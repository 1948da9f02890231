package config

import "time"

// Config is the root configuration structure for the Luciuz edge server.
// It contains the listener, certificate, proxy and telemetry sections.
type Config struct {
	// Server contains listener addresses and HTTP server timeouts.
	Server ServerConfig `yaml:"server"`

	// ACME contains automated certificate issuance settings.
	ACME ACMEConfig `yaml:"acme"`

	// TLS contains static certificate files used when ACME is disabled.
	TLS TLSConfig `yaml:"tls"`

	// Challenge contains the plaintext redirect settings.
	Challenge ChallengeConfig `yaml:"challenge"`

	// Proxy contains the route table and forwarding limits.
	Proxy ProxyConfig `yaml:"proxy"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the plaintext and secure listeners.
type ServerConfig struct {
	// HTTPListen is the plaintext listener address ("host:port").
	// It serves ACME HTTP-01 challenges and redirects everything else.
	// Default: "0.0.0.0:80"
	HTTPListen string `yaml:"http_listen"`

	// HTTPSListen is the TLS listener address ("host:port").
	// Default: "0.0.0.0:443"
	HTTPSListen string `yaml:"https_listen"`

	// Profile is a free-form deployment profile name (e.g. "dev", "prod").
	// Default: "dev"
	Profile string `yaml:"profile"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// ReadHeaderTimeout is the maximum duration for reading request headers.
	// Default: 10s
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown of every listener.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// ACMEConfig contains configuration for automated certificate management.
type ACMEConfig struct {
	// Enabled turns on ACME issuance and the dual-listener mode.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Prod selects the Let's Encrypt production directory. When false the
	// staging directory is used.
	// Default: false
	Prod bool `yaml:"prod"`

	// Domains lists the host names to obtain certificates for.
	Domains []string `yaml:"domains"`

	// Email is the ACME account contact address.
	Email string `yaml:"email"`

	// CacheDir is where account keys and certificates are persisted.
	// Default: "./data/acme"
	CacheDir string `yaml:"cache_dir"`

	// DirectoryURL overrides the directory selected by Prod.
	DirectoryURL string `yaml:"directory_url"`

	// RenewBefore is how long before expiry a certificate is renewed.
	// Default: 720h (30 days)
	RenewBefore time.Duration `yaml:"renew_before"`

	// RenewSchedule is a cron expression for renewal checks.
	// Default: "@every 1h"
	RenewSchedule string `yaml:"renew_schedule"`

	// BootstrapTimeout bounds the synchronous initial issuance.
	// Default: 2m
	BootstrapTimeout time.Duration `yaml:"bootstrap_timeout"`

	// Cache selects the certificate cache backend.
	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig selects where ACME material is stored.
type CacheConfig struct {
	// Kind is "dir" (one file per key under CacheDir) or "sqlite".
	// Default: "dir"
	Kind string `yaml:"kind"`

	// Driver is the database/sql driver used when Kind is "sqlite":
	// "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the SQLite database file.
	// Default: "<cache_dir>/certs.db"
	Path string `yaml:"path"`
}

// TLSConfig contains a static certificate pair for the secure listener.
// It is only consulted when ACME is disabled.
type TLSConfig struct {
	// CertFile is the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`
}

// Enabled reports whether a static certificate pair is configured.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// ChallengeConfig contains configuration for the plaintext listener.
type ChallengeConfig struct {
	// DefaultHost is used in redirects when the request has no Host header.
	// Default: first ACME domain, or "localhost"
	DefaultHost string `yaml:"default_host"`

	// RedirectStatus is the HTTP status for HTTPS redirects
	// (301, 302, 307 or 308).
	// Default: 301
	RedirectStatus int `yaml:"redirect_status"`
}

// ProxyConfig contains configuration for the request forwarder.
type ProxyConfig struct {
	// MaxBodyBytes is the largest request body buffered for forwarding.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// UpstreamTimeout bounds a single upstream round trip.
	// Default: 30s
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`

	// Routes maps path prefixes to upstream base URLs.
	Routes []RouteConfig `yaml:"routes"`
}

// RouteConfig maps a path prefix to an upstream.
type RouteConfig struct {
	// Prefix is the path prefix, e.g. "/api" or "/".
	Prefix string `yaml:"prefix"`

	// Upstream is the absolute base URL of the backend.
	Upstream string `yaml:"upstream"`

	// Timeout overrides ProxyConfig.UpstreamTimeout for this route.
	Timeout time.Duration `yaml:"timeout"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls metric collection.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Listen is the address of a dedicated metrics listener. Empty disables
	// the listener; metrics are still collected.
	Listen string `yaml:"listen"`

	// Path is the exposition path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "luciuz"
	Namespace string `yaml:"namespace"`

	// UpstreamDurationBuckets overrides the latency histogram buckets (seconds).
	UpstreamDurationBuckets []float64 `yaml:"upstream_duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled turns on span export.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables transport security to the collector.
	Insecure bool `yaml:"insecure"`

	// SampleRatio is the fraction of traces sampled (0.0 - 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as service.name.
	// Default: "luciuz"
	ServiceName string `yaml:"service_name"`
}
