package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"luciuz/edge/pkg/cli"
	"luciuz/edge/pkg/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration",
	Long: `Load and validate the configuration, then print the effective values
the server would run with (after defaults and LUCIUZ_* overrides).

Examples:
  luciuz check
  luciuz check --config /etc/luciuz/luciuz.yaml`,
	Args: cobra.NoArgs,
	RunE: checkConfig,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	logger, err := initLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	slog.Info("config ok", "path", cfgFile)
	slog.Info("effective config",
		"http_listen", cfg.Server.HTTPListen,
		"https_listen", cfg.Server.HTTPSListen,
		"profile", cfg.Server.Profile,
		"acme_enabled", cfg.ACME.Enabled,
		"acme_prod", cfg.ACME.Prod,
		"acme_domains", strings.Join(cfg.ACME.Domains, ","),
		"acme_cache_dir", cfg.ACME.CacheDir,
		"routes", len(cfg.Proxy.Routes),
	)

	fmt.Fprintln(cmd.OutOrStdout(), effectiveFields(cfg).String())
	return nil
}

// effectiveFields lists the values an operator most often needs to confirm.
func effectiveFields(cfg *config.Config) cli.Fields {
	var fs cli.Fields
	fs = fs.Add("http_listen", cfg.Server.HTTPListen).
		Add("https_listen", cfg.Server.HTTPSListen).
		Add("profile", cfg.Server.Profile).
		Add("mode", mode(cfg)).
		Add("acme_prod", cfg.ACME.Prod).
		Add("acme_domains", strings.Join(cfg.ACME.Domains, ",")).
		Add("acme_cache_dir", cfg.ACME.CacheDir).
		Add("acme_cache", cfg.ACME.Cache.Kind)
	for _, r := range cfg.Proxy.Routes {
		fs = fs.Add("route "+r.Prefix, r.Upstream)
	}
	return fs
}

func mode(cfg *config.Config) string {
	switch {
	case cfg.ACME.Enabled:
		return "acme"
	case cfg.TLS.Enabled():
		return "static-tls"
	default:
		return "plain-http"
	}
}
