package certs

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/acme"
	"golang.org/x/crypto/acme/autocert"
)

// LetsEncryptStagingURL is the Let's Encrypt staging directory.
const LetsEncryptStagingURL = "https://acme-staging-v02.api.letsencrypt.org/directory"

// ACMEIssuerConfig configures an ACMEIssuer.
type ACMEIssuerConfig struct {
	// Domains is the host whitelist.
	Domains []string

	// Email is the account contact.
	Email string

	// DirectoryURL is the ACME directory. Empty means Let's Encrypt staging.
	DirectoryURL string

	// RenewBefore is passed to autocert.Manager.
	RenewBefore time.Duration

	// Cache persists account keys and certificates. Required.
	Cache autocert.Cache

	// CacheDir is watched for changes when Cache is a DirCache.
	CacheDir string
}

// ACMEIssuer obtains certificates through autocert using HTTP-01.
type ACMEIssuer struct {
	manager  *autocert.Manager
	watchDir string
}

// NewACMEIssuer creates an issuer backed by an autocert.Manager.
func NewACMEIssuer(cfg ACMEIssuerConfig) (*ACMEIssuer, error) {
	if len(cfg.Domains) == 0 {
		return nil, errors.New("acme issuer requires at least one domain")
	}
	if cfg.Cache == nil {
		return nil, errors.New("acme issuer requires a cache")
	}

	directory := cfg.DirectoryURL
	if directory == "" {
		directory = LetsEncryptStagingURL
	}

	m := &autocert.Manager{
		Prompt:      autocert.AcceptTOS,
		Cache:       cfg.Cache,
		HostPolicy:  autocert.HostWhitelist(cfg.Domains...),
		Email:       cfg.Email,
		RenewBefore: cfg.RenewBefore,
		Client: &acme.Client{
			DirectoryURL: directory,
			UserAgent:    "luciuz",
		},
	}

	return &ACMEIssuer{manager: m, watchDir: cfg.CacheDir}, nil
}

// Obtain returns the certificate for domain. autocert serves a valid cached
// certificate without contacting the CA and issues a new one otherwise.
// autocert does not take a context, so cancellation abandons the wait but
// not the order itself.
func (i *ACMEIssuer) Obtain(ctx context.Context, domain string) (*tls.Certificate, error) {
	type result struct {
		cert *tls.Certificate
		err  error
	}
	done := make(chan result, 1)

	go func() {
		cert, err := i.manager.GetCertificate(helloFor(domain))
		done <- result{cert, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("obtain certificate for %s: %w", domain, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("obtain certificate for %s: %w", domain, r.err)
		}
		return r.cert, nil
	}
}

// ChallengeHandler returns autocert's HTTP-01 responder. Non-challenge
// requests never reach it, so its fallback is a plain 404.
func (i *ACMEIssuer) ChallengeHandler() http.Handler {
	return i.manager.HTTPHandler(http.NotFoundHandler())
}

// WatchDir implements WatchedIssuer.
func (i *ACMEIssuer) WatchDir() string {
	return i.watchDir
}

// helloFor builds a ClientHello that makes autocert pick an ECDSA P-256 key.
// Every TLS 1.2+ client this server accepts supports it.
func helloFor(domain string) *tls.ClientHelloInfo {
	return &tls.ClientHelloInfo{
		ServerName:        domain,
		CipherSuites:      []uint16{tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256},
		SupportedCurves:   []tls.CurveID{tls.CurveP256},
		SignatureSchemes:  []tls.SignatureScheme{tls.ECDSAWithP256AndSHA256},
		SupportedVersions: []uint16{tls.VersionTLS13, tls.VersionTLS12},
	}
}
