package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"luciuz/edge/pkg/certs"
)

var generateFlags struct {
	hosts    string
	validity int
	output   string
}

var certsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a self-signed certificate",
	Long: `Generate a self-signed ECDSA P-256 certificate and key.

The pair is written as cert.pem and key.pem (mode 0600) in the output
directory and can be used with tls.cert_file / tls.key_file for local
testing. Do not use it in production; enable ACME instead.

Examples:
  luciuz certs generate --host localhost
  luciuz certs generate --host "localhost,127.0.0.1,edge.local" --validity 30 --output certs/`,
	Args: cobra.NoArgs,
	RunE: generateCertificate,
}

func init() {
	certsCmd.AddCommand(certsGenerateCmd)

	certsGenerateCmd.Flags().StringVar(&generateFlags.hosts, "host", "localhost", "comma-separated hostnames and IPs")
	certsGenerateCmd.Flags().IntVar(&generateFlags.validity, "validity", 365, "validity in days")
	certsGenerateCmd.Flags().StringVarP(&generateFlags.output, "output", "o", "certs", "output directory")
}

func generateCertificate(cmd *cobra.Command, _ []string) error {
	if generateFlags.validity <= 0 {
		return fmt.Errorf("invalid validity: %d (must be positive)", generateFlags.validity)
	}

	var hosts []string
	for _, h := range strings.Split(generateFlags.hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}

	certPEM, keyPEM, err := certs.GenerateSelfSigned(certs.SelfSignedOptions{
		Hosts:    hosts,
		ValidFor: time.Duration(generateFlags.validity) * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to generate certificate: %w", err)
	}

	if err := os.MkdirAll(generateFlags.output, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	certPath := filepath.Join(generateFlags.output, "cert.pem")
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return fmt.Errorf("failed to write certificate: %w", err)
	}
	keyPath := filepath.Join(generateFlags.output, "key.pem")
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Certificate: %s\n", certPath)
	fmt.Fprintf(out, "Private key: %s\n", keyPath)
	fmt.Fprintf(out, "Hosts:       %s\n", strings.Join(hosts, ", "))
	fmt.Fprintf(out, "Validity:    %d days\n", generateFlags.validity)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Self-signed certificates are for testing only. To serve this pair:")
	fmt.Fprintln(out, "tls:")
	fmt.Fprintf(out, "  cert_file: %q\n", certPath)
	fmt.Fprintf(out, "  key_file: %q\n", keyPath)
	return nil
}
