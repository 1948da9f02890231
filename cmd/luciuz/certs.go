package main

import (
	"github.com/spf13/cobra"
)

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Inspect and generate certificates",
	Long: `Utilities for the certificates served by the secure listener.

Subcommands:
  info     - Display certificate details
  generate - Generate a self-signed pair for the static TLS mode

Examples:
  luciuz certs info /var/lib/luciuz/tls/cert.pem
  luciuz certs generate --host localhost,127.0.0.1`,
}

func init() {
	rootCmd.AddCommand(certsCmd)
}
