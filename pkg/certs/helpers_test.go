package certs

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testPair generates a self-signed pair for hosts valid for validFor.
func testPair(t *testing.T, validFor time.Duration, hosts ...string) (certPEM, keyPEM []byte) {
	t.Helper()
	certPEM, keyPEM, err := GenerateSelfSigned(SelfSignedOptions{
		Hosts:     hosts,
		NotBefore: time.Now().Add(-time.Hour),
		ValidFor:  validFor,
	})
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}
	return certPEM, keyPEM
}

// testCert returns a parsed tls.Certificate for hosts.
func testCert(t *testing.T, validFor time.Duration, hosts ...string) *tls.Certificate {
	t.Helper()
	certPEM, keyPEM := testPair(t, validFor, hosts...)
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("X509KeyPair() error = %v", err)
	}
	return &cert
}

// writePair writes cert.pem and key.pem into dir and returns their paths.
func writePair(t *testing.T, dir string, certPEM, keyPEM []byte) (certFile, keyFile string) {
	t.Helper()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certFile, certPEM, 0o600); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return certFile, keyFile
}
