package certs

import "time"

// EventKind is a certificate lifecycle transition.
type EventKind string

const (
	// IssuanceStarted is emitted when a domain has no certificate or its
	// certificate is inside the renewal window.
	IssuanceStarted EventKind = "started"

	// IssuanceCompleted is emitted when a new leaf is installed.
	IssuanceCompleted EventKind = "completed"

	// IssuanceFailed is emitted when the issuer returns an error.
	IssuanceFailed EventKind = "failed"
)

// Event describes one lifecycle transition for a domain.
type Event struct {
	Kind   EventKind
	Domain string
	Time   time.Time

	// NotAfter is the expiry of the installed certificate (completed only).
	NotAfter time.Time

	// Err is the issuer error (failed only).
	Err error
}

// eventBuffer bounds pending events between refreshes and the Run loop.
const eventBuffer = 64
