// Package config provides configuration management for the Luciuz edge server.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("luciuz.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("luciuz.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LUCIUZ_SECTION_FIELD.
// For example:
//
//   - LUCIUZ_SERVER_HTTP_LISTEN overrides server.http_listen
//   - LUCIUZ_ACME_DOMAINS overrides acme.domains (comma separated)
//   - LUCIUZ_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Values from YAML file
//  2. Default values for anything left unset (defined in defaults.go)
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// Validation errors include field paths:
//
//	configuration validation failed with 2 errors:
//	  - acme.email: contact email is required when acme is enabled
//	  - proxy.routes[1].prefix: duplicate prefix "/api" (also routes[0])
//
// # Example Configuration
//
//	server:
//	  http_listen: "0.0.0.0:80"
//	  https_listen: "0.0.0.0:443"
//
//	acme:
//	  enabled: true
//	  domains: ["luciuz.com"]
//	  email: "ops@luciuz.com"
//
//	proxy:
//	  routes:
//	    - prefix: /api
//	      upstream: http://127.0.0.1:9000
//	    - prefix: /
//	      upstream: http://127.0.0.1:3000
package config
