package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"luciuz/edge/pkg/cli"
	"luciuz/edge/pkg/config"
	"luciuz/edge/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "luciuz",
	Short: "Luciuz - TLS-terminating edge server",
	Long: `Luciuz is an edge server that obtains and renews certificates through
ACME (HTTP-01), redirects plaintext traffic to HTTPS and forwards requests
to upstream services by path prefix.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits 1 on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "luciuz.yaml", "config file path")
}

// printError writes err to stderr, one line per invalid field for
// validation failures.
func printError(err error) {
	if fieldErrs := cli.ConfigErrors(err); len(fieldErrs) > 0 {
		fmt.Fprintln(os.Stderr, "Error: invalid configuration")
		for _, fe := range fieldErrs {
			fmt.Fprintf(os.Stderr, "  - %s\n", fe.Error())
		}
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}

// loadConfig reads, overrides from the environment and validates path.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, cli.NewConfigError("--config", err.Error())
		}
		return nil, err
	}
	return cfg, nil
}

// initLogging installs the process logger described by cfg.
func initLogging(cfg *config.Config) (*logging.Logger, error) {
	l := cfg.Telemetry.Logging
	logger, err := logging.Init(logging.Config{
		Level:     l.Level,
		Format:    l.Format,
		AddSource: l.AddSource,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}
