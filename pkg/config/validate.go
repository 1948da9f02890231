package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.http_listen").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	// Validate server configuration
	errs = append(errs, validateServer(&cfg.Server, cfg.ACME.Enabled || cfg.TLS.Enabled())...)

	// Validate ACME configuration
	errs = append(errs, validateACME(&cfg.ACME)...)

	// Validate static TLS configuration
	errs = append(errs, validateTLS(&cfg.TLS)...)

	// Validate challenge configuration
	errs = append(errs, validateChallenge(&cfg.Challenge)...)

	// Validate proxy configuration
	errs = append(errs, validateProxy(&cfg.Proxy)...)

	// Validate telemetry configuration
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates listener configuration. The HTTPS listener is
// only checked when a certificate source is configured.
func validateServer(cfg *ServerConfig, secure bool) []FieldError {
	var errs []FieldError

	errs = append(errs, validateListenAddress("server.http_listen", cfg.HTTPListen)...)
	if secure {
		errs = append(errs, validateListenAddress("server.https_listen", cfg.HTTPSListen)...)
	}

	// Validate timeouts are positive
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.ReadHeaderTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_header_timeout",
			Message: "read header timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}

	// Validate max header bytes is reasonable
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 { // 10MB is excessive
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}

	return errs
}

func validateListenAddress(field, addr string) []FieldError {
	if addr == "" {
		return []FieldError{{Field: field, Message: "listen address is required"}}
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return []FieldError{{Field: field, Message: fmt.Sprintf("invalid listen address: %v", err)}}
	}
	return nil
}

// validateACME validates ACME configuration. Most fields are only required
// when ACME is enabled.
func validateACME(cfg *ACMEConfig) []FieldError {
	var errs []FieldError

	if cfg.RenewBefore < 0 {
		errs = append(errs, FieldError{
			Field:   "acme.renew_before",
			Message: "renew before must be positive",
		})
	}
	if cfg.BootstrapTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "acme.bootstrap_timeout",
			Message: "bootstrap timeout must be positive",
		})
	}

	if !cfg.Enabled {
		return errs
	}

	if len(cfg.Domains) == 0 {
		errs = append(errs, FieldError{
			Field:   "acme.domains",
			Message: "at least one domain is required when acme is enabled",
		})
	}
	seen := make(map[string]bool, len(cfg.Domains))
	for i, d := range cfg.Domains {
		field := fmt.Sprintf("acme.domains[%d]", i)
		switch {
		case strings.TrimSpace(d) == "":
			errs = append(errs, FieldError{Field: field, Message: "domain must not be empty"})
		case strings.ContainsAny(d, "/:* "):
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("invalid domain %q", d)})
		case seen[strings.ToLower(d)]:
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("duplicate domain %q", d)})
		}
		seen[strings.ToLower(d)] = true
	}

	if cfg.Email == "" {
		errs = append(errs, FieldError{
			Field:   "acme.email",
			Message: "contact email is required when acme is enabled",
		})
	} else if !strings.Contains(cfg.Email, "@") {
		errs = append(errs, FieldError{
			Field:   "acme.email",
			Message: fmt.Sprintf("invalid email %q", cfg.Email),
		})
	}

	if cfg.CacheDir == "" {
		errs = append(errs, FieldError{
			Field:   "acme.cache_dir",
			Message: "cache directory is required when acme is enabled",
		})
	}

	if cfg.DirectoryURL != "" {
		if u, err := url.Parse(cfg.DirectoryURL); err != nil || u.Scheme != "https" && u.Scheme != "http" || u.Host == "" {
			errs = append(errs, FieldError{
				Field:   "acme.directory_url",
				Message: fmt.Sprintf("invalid directory URL %q", cfg.DirectoryURL),
			})
		}
	}

	if _, err := cron.ParseStandard(cfg.RenewSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "acme.renew_schedule",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		})
	}

	// Validate cache backend
	validKinds := map[string]bool{CacheKindDir: true, CacheKindSQLite: true}
	if !validKinds[cfg.Cache.Kind] {
		errs = append(errs, FieldError{
			Field:   "acme.cache.kind",
			Message: fmt.Sprintf("invalid cache kind %q (must be 'dir' or 'sqlite')", cfg.Cache.Kind),
		})
	}
	if cfg.Cache.Kind == CacheKindSQLite {
		validDrivers := map[string]bool{"sqlite": true, "sqlite3": true}
		if !validDrivers[cfg.Cache.Driver] {
			errs = append(errs, FieldError{
				Field:   "acme.cache.driver",
				Message: fmt.Sprintf("invalid cache driver %q (must be 'sqlite' or 'sqlite3')", cfg.Cache.Driver),
			})
		}
		if cfg.Cache.Path == "" {
			errs = append(errs, FieldError{
				Field:   "acme.cache.path",
				Message: "cache path is required for the sqlite cache",
			})
		}
	}

	return errs
}

// validateTLS validates the static certificate pair.
func validateTLS(cfg *TLSConfig) []FieldError {
	var errs []FieldError

	if cfg.CertFile != "" && cfg.KeyFile == "" {
		errs = append(errs, FieldError{
			Field:   "tls.key_file",
			Message: "key file is required when cert file is set",
		})
	}
	if cfg.KeyFile != "" && cfg.CertFile == "" {
		errs = append(errs, FieldError{
			Field:   "tls.cert_file",
			Message: "cert file is required when key file is set",
		})
	}

	return errs
}

// validateChallenge validates redirect configuration.
func validateChallenge(cfg *ChallengeConfig) []FieldError {
	var errs []FieldError

	validStatus := map[int]bool{301: true, 302: true, 307: true, 308: true}
	if !validStatus[cfg.RedirectStatus] {
		errs = append(errs, FieldError{
			Field:   "challenge.redirect_status",
			Message: fmt.Sprintf("invalid redirect status %d (must be 301, 302, 307 or 308)", cfg.RedirectStatus),
		})
	}
	if strings.ContainsAny(cfg.DefaultHost, "/ ") {
		errs = append(errs, FieldError{
			Field:   "challenge.default_host",
			Message: fmt.Sprintf("invalid host %q", cfg.DefaultHost),
		})
	}

	return errs
}

// validateProxy validates the route table and forwarding limits.
func validateProxy(cfg *ProxyConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_body_bytes",
			Message: "max body bytes must be positive",
		})
	}
	if cfg.UpstreamTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.upstream_timeout",
			Message: "upstream timeout must be positive",
		})
	}

	seen := make(map[string]int, len(cfg.Routes))
	for i, route := range cfg.Routes {
		prefix := fmt.Sprintf("proxy.routes[%d]", i)

		// Validate prefix
		switch {
		case route.Prefix == "":
			errs = append(errs, FieldError{
				Field:   prefix + ".prefix",
				Message: "prefix is required",
			})
		case !strings.HasPrefix(route.Prefix, "/"):
			errs = append(errs, FieldError{
				Field:   prefix + ".prefix",
				Message: fmt.Sprintf("prefix %q must start with '/'", route.Prefix),
			})
		default:
			norm := normalizePrefix(route.Prefix)
			if j, dup := seen[norm]; dup {
				errs = append(errs, FieldError{
					Field:   prefix + ".prefix",
					Message: fmt.Sprintf("duplicate prefix %q (also routes[%d])", route.Prefix, j),
				})
			} else {
				seen[norm] = i
			}
		}

		// Validate upstream URL
		if route.Upstream == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".upstream",
				Message: "upstream URL is required",
			})
		} else if u, err := url.Parse(route.Upstream); err != nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".upstream",
				Message: fmt.Sprintf("invalid URL format: %v", err),
			})
		} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".upstream",
				Message: fmt.Sprintf("upstream %q must be an absolute http or https URL", route.Upstream),
			})
		}

		if route.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".timeout",
				Message: "timeout must be positive",
			})
		}
	}

	return errs
}

// normalizePrefix trims trailing slashes, keeping "/" intact.
func normalizePrefix(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be 'json' or 'text')", cfg.Logging.Format),
		})
	}

	// Validate metrics
	if cfg.Metrics.Enabled {
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with '/'",
			})
		}
		if cfg.Metrics.Listen != "" {
			errs = append(errs, validateListenAddress("telemetry.metrics.listen", cfg.Metrics.Listen)...)
		}
		for i := 1; i < len(cfg.Metrics.UpstreamDurationBuckets); i++ {
			if cfg.Metrics.UpstreamDurationBuckets[i] <= cfg.Metrics.UpstreamDurationBuckets[i-1] {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.upstream_duration_buckets",
					Message: "buckets must be sorted in increasing order",
				})
				break
			}
		}
	}

	// Validate tracing
	if cfg.Tracing.Enabled {
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "endpoint is required when tracing is enabled",
			})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: "sample ratio must be between 0.0 and 1.0",
			})
		}
	}

	return errs
}
