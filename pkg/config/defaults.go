package config

import (
	"path/filepath"
	"time"
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultHTTPListen        = "0.0.0.0:80"
	DefaultHTTPSListen       = "0.0.0.0:443"
	DefaultProfile           = "dev"
	DefaultReadTimeout       = 30 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
	DefaultMaxHeaderBytes    = 1048576 // 1MB

	// ACME defaults
	DefaultACMECacheDir         = "./data/acme"
	DefaultACMERenewBefore      = 720 * time.Hour
	DefaultACMERenewSchedule    = "@every 1h"
	DefaultACMEBootstrapTimeout = 2 * time.Minute
	DefaultACMECacheKind        = CacheKindDir
	DefaultACMECacheDriver      = "sqlite"
	DefaultACMECacheFile        = "certs.db"

	// Challenge defaults
	DefaultChallengeHost   = "localhost"
	DefaultRedirectStatus  = 301
	DefaultMaxBodyBytes    = int64(10 * 1024 * 1024) // 10MB
	DefaultUpstreamTimeout = 30 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "luciuz"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingServiceName = "luciuz"
)

// Cache kinds.
const (
	CacheKindDir    = "dir"
	CacheKindSQLite = "sqlite"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.HTTPListen == "" {
		cfg.Server.HTTPListen = DefaultHTTPListen
	}
	if cfg.Server.HTTPSListen == "" {
		cfg.Server.HTTPSListen = DefaultHTTPSListen
	}
	if cfg.Server.Profile == "" {
		cfg.Server.Profile = DefaultProfile
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// ACME defaults
	if cfg.ACME.CacheDir == "" {
		cfg.ACME.CacheDir = DefaultACMECacheDir
	}
	if cfg.ACME.RenewBefore == 0 {
		cfg.ACME.RenewBefore = DefaultACMERenewBefore
	}
	if cfg.ACME.RenewSchedule == "" {
		cfg.ACME.RenewSchedule = DefaultACMERenewSchedule
	}
	if cfg.ACME.BootstrapTimeout == 0 {
		cfg.ACME.BootstrapTimeout = DefaultACMEBootstrapTimeout
	}
	if cfg.ACME.Cache.Kind == "" {
		cfg.ACME.Cache.Kind = DefaultACMECacheKind
	}
	if cfg.ACME.Cache.Driver == "" {
		cfg.ACME.Cache.Driver = DefaultACMECacheDriver
	}
	if cfg.ACME.Cache.Path == "" {
		cfg.ACME.Cache.Path = filepath.Join(cfg.ACME.CacheDir, DefaultACMECacheFile)
	}

	// Challenge defaults
	if cfg.Challenge.DefaultHost == "" {
		if len(cfg.ACME.Domains) > 0 {
			cfg.Challenge.DefaultHost = cfg.ACME.Domains[0]
		} else {
			cfg.Challenge.DefaultHost = DefaultChallengeHost
		}
	}
	if cfg.Challenge.RedirectStatus == 0 {
		cfg.Challenge.RedirectStatus = DefaultRedirectStatus
	}

	// Proxy defaults
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Proxy.UpstreamTimeout == 0 {
		cfg.Proxy.UpstreamTimeout = DefaultUpstreamTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}

// NewDefaultConfig returns a configuration with every default applied.
// The route table is empty; callers add routes before validating.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
