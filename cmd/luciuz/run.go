package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"luciuz/edge/pkg/certs"
	"luciuz/edge/pkg/cli"
	"luciuz/edge/pkg/server"
	"luciuz/edge/pkg/telemetry/logging"
	"luciuz/edge/pkg/telemetry/metrics"
	"luciuz/edge/pkg/telemetry/tracing"
)

var runFlags struct {
	logLevel string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the edge server",
	Long: `Start the edge server with the specified configuration.

With ACME enabled the server binds both listeners, answers HTTP-01 challenges
on the plaintext one, obtains a certificate for every domain and only then
starts serving TLS. Without ACME or a static certificate pair it serves the
routes in plain HTTP on http_listen (development mode).

Examples:
  luciuz run
  luciuz run --config /etc/luciuz/luciuz.yaml --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := initLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := cli.SetupSignalHandler(parent)
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("init tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	var orch *certs.Orchestrator
	if cfg.ACME.Enabled || cfg.TLS.Enabled() {
		o, closer, err := certs.FromConfig(cfg, collector, logging.Component("certs"))
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer closer.Close()
		orch = o
	}

	srv, err := server.New(cfg, server.Options{
		Certificates: orch,
		Metrics:      collector,
		Tracer:       tracer,
		Logger:       logging.Component("server"),
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	slog.Info("starting luciuz",
		"version", Version,
		"http_listen", cfg.Server.HTTPListen,
		"https_listen", cfg.Server.HTTPSListen,
		"profile", cfg.Server.Profile,
		"mode", mode(cfg),
		"routes", len(cfg.Proxy.Routes),
	)

	if err := srv.Run(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	slog.Warn("server stopped")
	return nil
}
