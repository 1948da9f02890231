package certs

import (
	"context"
	"crypto/tls"
	"net/http"
)

// Issuer obtains certificates for a domain.
type Issuer interface {
	// Obtain returns the current certificate for domain, issuing or
	// renewing it when needed. Calling it again with nothing changed
	// returns a certificate with the same leaf.
	Obtain(ctx context.Context, domain string) (*tls.Certificate, error)

	// ChallengeHandler answers HTTP-01 challenge requests, or returns nil
	// when the issuer does not use them.
	ChallengeHandler() http.Handler
}

// WatchedIssuer is implemented by issuers whose material lives in a
// directory worth watching for out-of-band changes.
type WatchedIssuer interface {
	Issuer

	// WatchDir returns the directory to watch, or "" for none.
	WatchDir() string
}
