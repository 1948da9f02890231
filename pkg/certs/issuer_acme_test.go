package certs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/acme/autocert"
)

// unreachableDirectory refuses connections immediately.
const unreachableDirectory = "http://127.0.0.1:1/directory"

func TestNewACMEIssuer_Validation(t *testing.T) {
	if _, err := NewACMEIssuer(ACMEIssuerConfig{Cache: autocert.DirCache(t.TempDir())}); err == nil {
		t.Error("expected error without domains")
	}
	if _, err := NewACMEIssuer(ACMEIssuerConfig{Domains: []string{"luciuz.test"}}); err == nil {
		t.Error("expected error without cache")
	}
}

func TestACMEIssuer_BootstrapFromCache(t *testing.T) {
	dir := t.TempDir()
	certPEM, keyPEM := testPair(t, 365*24*time.Hour, "luciuz.test")

	// autocert stores ECDSA material under the bare domain: key then chain.
	data := append(append([]byte{}, keyPEM...), certPEM...)
	if err := os.WriteFile(filepath.Join(dir, "luciuz.test"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	issuer, err := NewACMEIssuer(ACMEIssuerConfig{
		Domains:      []string{"luciuz.test"},
		DirectoryURL: unreachableDirectory,
		Cache:        autocert.DirCache(dir),
		CacheDir:     dir,
	})
	if err != nil {
		t.Fatalf("NewACMEIssuer() error = %v", err)
	}

	o, err := New(issuer, Options{Domains: []string{"luciuz.test"}, BootstrapTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if o.opts.WatchDir != dir {
		t.Errorf("WatchDir = %q, want %q", o.opts.WatchDir, dir)
	}
	if err := o.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if o.Certificate("luciuz.test") == nil {
		t.Error("no certificate installed")
	}
}

func TestACMEIssuer_BootstrapUnreachableCA(t *testing.T) {
	issuer, err := NewACMEIssuer(ACMEIssuerConfig{
		Domains:      []string{"luciuz.test"},
		DirectoryURL: unreachableDirectory,
		Cache:        autocert.DirCache(t.TempDir()),
	})
	if err != nil {
		t.Fatalf("NewACMEIssuer() error = %v", err)
	}

	o, err := New(issuer, Options{Domains: []string{"luciuz.test"}, BootstrapTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = o.Bootstrap(context.Background())
	if err == nil {
		t.Fatal("expected bootstrap to fail")
	}
	if !strings.Contains(err.Error(), "luciuz.test") {
		t.Errorf("error does not name the domain: %v", err)
	}
}

func TestACMEIssuer_ChallengeHandler(t *testing.T) {
	issuer, err := NewACMEIssuer(ACMEIssuerConfig{
		Domains: []string{"luciuz.test"},
		Cache:   autocert.DirCache(t.TempDir()),
	})
	if err != nil {
		t.Fatalf("NewACMEIssuer() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "http://luciuz.test/.well-known/acme-challenge/unknown-token", nil)
	rec := httptest.NewRecorder()
	issuer.ChallengeHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for an unknown token", rec.Code)
	}
}
