package certs

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileIssuer serves a static certificate pair from disk and reloads it when
// either file's modification time moves forward. The same pair is returned
// for every domain.
type FileIssuer struct {
	certFile string
	keyFile  string

	mu       sync.Mutex
	cert     *tls.Certificate
	certTime time.Time
	keyTime  time.Time
}

// NewFileIssuer creates an issuer for the given PEM files.
func NewFileIssuer(certFile, keyFile string) (*FileIssuer, error) {
	if certFile == "" || keyFile == "" {
		return nil, errors.New("file issuer requires both cert and key files")
	}
	return &FileIssuer{certFile: certFile, keyFile: keyFile}, nil
}

// Obtain loads the pair on first use and again whenever the files change.
// An unchanged pair returns the previously loaded certificate.
func (i *FileIssuer) Obtain(ctx context.Context, _ string) (*tls.Certificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cert != nil && !i.needsReload() {
		return i.cert, nil
	}
	if err := i.reload(); err != nil {
		return nil, err
	}
	return i.cert, nil
}

// ChallengeHandler returns nil; static certificates need no challenges.
func (i *FileIssuer) ChallengeHandler() http.Handler {
	return nil
}

// WatchDir implements WatchedIssuer.
func (i *FileIssuer) WatchDir() string {
	return filepath.Dir(i.certFile)
}

// needsReload reports whether either file is newer than the loaded pair.
// Must be called with mu held.
func (i *FileIssuer) needsReload() bool {
	certInfo, err := os.Stat(i.certFile)
	if err != nil {
		return false
	}
	keyInfo, err := os.Stat(i.keyFile)
	if err != nil {
		return false
	}
	return certInfo.ModTime().After(i.certTime) || keyInfo.ModTime().After(i.keyTime)
}

// reload loads and validates the pair. Must be called with mu held.
func (i *FileIssuer) reload() error {
	certInfo, err := os.Stat(i.certFile)
	if err != nil {
		return fmt.Errorf("stat certificate file: %w", err)
	}
	keyInfo, err := os.Stat(i.keyFile)
	if err != nil {
		return fmt.Errorf("stat key file: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(i.certFile, i.keyFile)
	if err != nil {
		return fmt.Errorf("load certificate pair: %w", err)
	}
	if err := ValidateCertificate(&cert); err != nil {
		return fmt.Errorf("certificate validation failed: %w", err)
	}

	i.cert = &cert
	i.certTime = certInfo.ModTime()
	i.keyTime = keyInfo.ModTime()
	return nil
}
