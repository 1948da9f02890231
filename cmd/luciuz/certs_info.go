package main

import (
	"crypto/x509"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"luciuz/edge/pkg/certs"
	"luciuz/edge/pkg/cli"
)

var infoFlags struct {
	format string
}

var certsInfoCmd = &cobra.Command{
	Use:   "info [cert-file]",
	Short: "Display certificate details",
	Long: `Display the subject, SANs, validity and algorithms of a PEM certificate.

For an autocert cache entry (key followed by chain) the first certificate
block is used.

Examples:
  luciuz certs info certs/cert.pem
  luciuz certs info --format json /var/lib/luciuz/acme/luciuz.com`,
	Args: cobra.ExactArgs(1),
	RunE: displayCertInfo,
}

func init() {
	certsCmd.AddCommand(certsInfoCmd)

	certsInfoCmd.Flags().StringVar(&infoFlags.format, "format", "text", "output format: text, json")
}

// certReport is the JSON shape of certs info.
type certReport struct {
	certs.CertificateInfo
	DaysRemaining int    `json:"days_remaining"`
	Expired       bool   `json:"expired"`
	Warning       string `json:"warning,omitempty"`
}

func displayCertInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read certificate: %w", err)
	}
	leaf, err := certs.ParseCertificatePEM(data)
	if err != nil {
		return err
	}

	report := newCertReport(leaf)
	out := cmd.OutOrStdout()
	if cli.OutputFormat(infoFlags.format) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(out, report)
	}
	return printCertText(out, args[0], report)
}

func newCertReport(leaf *x509.Certificate) certReport {
	days, warning := certs.CheckCertificateExpiration(leaf)
	return certReport{
		CertificateInfo: *certs.ExtractCertificateInfo(leaf),
		DaysRemaining:   days,
		Expired:         time.Now().After(leaf.NotAfter),
		Warning:         warning,
	}
}

func printCertText(w io.Writer, file string, r certReport) error {
	status := fmt.Sprintf("valid (%d days remaining)", r.DaysRemaining)
	if r.Expired {
		status = "EXPIRED"
	}

	fs := cli.Fields{}.
		Add("File", file).
		Add("Subject", r.Subject).
		Add("Issuer", r.Issuer).
		Add("Not Before", r.NotBefore.Format(time.RFC3339)).
		Add("Not After", r.NotAfter.Format(time.RFC3339)).
		Add("Status", status).
		Add("DNS Names", strings.Join(r.DNSNames, ", ")).
		Add("IP Addresses", strings.Join(r.IPAddresses, ", ")).
		Add("Signature Algorithm", r.SignatureAlgorithm).
		Add("Public Key Algorithm", r.PublicKeyAlgorithm).
		Add("Serial Number", r.SerialNumber)
	if r.Warning != "" {
		fs = fs.Add("Warning", r.Warning)
	}

	_, err := fmt.Fprintln(w, fs.String())
	return err
}
