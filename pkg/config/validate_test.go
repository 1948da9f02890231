package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{
		ACME: ACMEConfig{
			Enabled: true,
			Domains: []string{"luciuz.com"},
			Email:   "ops@luciuz.com",
		},
		Proxy: ProxyConfig{
			Routes: []RouteConfig{
				{Prefix: "/api", Upstream: "http://127.0.0.1:9000"},
				{Prefix: "/", Upstream: "https://app.internal"},
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{
			name:   "bad http listen",
			modify: func(c *Config) { c.Server.HTTPListen = "localhost" },
			field:  "server.http_listen",
		},
		{
			name:   "bad https listen with acme",
			modify: func(c *Config) { c.Server.HTTPSListen = "not-an-address" },
			field:  "server.https_listen",
		},
		{
			name:   "negative shutdown timeout",
			modify: func(c *Config) { c.Server.ShutdownTimeout = -1 },
			field:  "server.shutdown_timeout",
		},
		{
			name:   "acme without domains",
			modify: func(c *Config) { c.ACME.Domains = nil },
			field:  "acme.domains",
		},
		{
			name:   "acme duplicate domain",
			modify: func(c *Config) { c.ACME.Domains = []string{"a.com", "A.com"} },
			field:  "acme.domains[1]",
		},
		{
			name:   "acme without email",
			modify: func(c *Config) { c.ACME.Email = "" },
			field:  "acme.email",
		},
		{
			name:   "acme malformed email",
			modify: func(c *Config) { c.ACME.Email = "ops" },
			field:  "acme.email",
		},
		{
			name:   "acme without cache dir",
			modify: func(c *Config) { c.ACME.CacheDir = "" },
			field:  "acme.cache_dir",
		},
		{
			name:   "bad renew schedule",
			modify: func(c *Config) { c.ACME.RenewSchedule = "every hour please" },
			field:  "acme.renew_schedule",
		},
		{
			name:   "bad directory url",
			modify: func(c *Config) { c.ACME.DirectoryURL = "ftp://ca" },
			field:  "acme.directory_url",
		},
		{
			name:   "unknown cache kind",
			modify: func(c *Config) { c.ACME.Cache.Kind = "redis" },
			field:  "acme.cache.kind",
		},
		{
			name: "unknown sqlite driver",
			modify: func(c *Config) {
				c.ACME.Cache.Kind = CacheKindSQLite
				c.ACME.Cache.Driver = "postgres"
			},
			field: "acme.cache.driver",
		},
		{
			name:   "cert without key",
			modify: func(c *Config) { c.TLS.CertFile = "cert.pem" },
			field:  "tls.key_file",
		},
		{
			name:   "unsupported redirect status",
			modify: func(c *Config) { c.Challenge.RedirectStatus = 303 },
			field:  "challenge.redirect_status",
		},
		{
			name:   "zero max body",
			modify: func(c *Config) { c.Proxy.MaxBodyBytes = -1 },
			field:  "proxy.max_body_bytes",
		},
		{
			name:   "empty prefix",
			modify: func(c *Config) { c.Proxy.Routes[0].Prefix = "" },
			field:  "proxy.routes[0].prefix",
		},
		{
			name:   "prefix without slash",
			modify: func(c *Config) { c.Proxy.Routes[0].Prefix = "api" },
			field:  "proxy.routes[0].prefix",
		},
		{
			name:   "duplicate prefix",
			modify: func(c *Config) { c.Proxy.Routes[1].Prefix = "/api/" },
			field:  "proxy.routes[1].prefix",
		},
		{
			name:   "relative upstream",
			modify: func(c *Config) { c.Proxy.Routes[0].Upstream = "127.0.0.1:9000" },
			field:  "proxy.routes[0].upstream",
		},
		{
			name:   "non-http upstream",
			modify: func(c *Config) { c.Proxy.Routes[0].Upstream = "ws://127.0.0.1:9000" },
			field:  "proxy.routes[0].upstream",
		},
		{
			name:   "missing upstream",
			modify: func(c *Config) { c.Proxy.Routes[0].Upstream = "" },
			field:  "proxy.routes[0].upstream",
		},
		{
			name:   "bad log level",
			modify: func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			field:  "telemetry.logging.level",
		},
		{
			name:   "bad log format",
			modify: func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			field:  "telemetry.logging.format",
		},
		{
			name: "unsorted buckets",
			modify: func(c *Config) {
				c.Telemetry.Metrics.Enabled = true
				c.Telemetry.Metrics.UpstreamDurationBuckets = []float64{1, 0.5}
			},
			field: "telemetry.metrics.upstream_duration_buckets",
		},
		{
			name: "bad sample ratio",
			modify: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
				c.Telemetry.Tracing.SampleRatio = 2
			},
			field: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					return
				}
			}
			t.Errorf("expected error for field %q, got %v", tt.field, verr.Errors)
		})
	}
}

func TestValidate_PlainHTTPModeSkipsHTTPSListen(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Server.HTTPSListen = "garbage"

	if err := Validate(cfg); err != nil {
		t.Errorf("expected https listen to be ignored without a certificate source, got %v", err)
	}
}

func TestValidationError_Format(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("unexpected single error format: %q", got)
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	got := multi.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("unexpected multi error format: %q", got)
	}
}
