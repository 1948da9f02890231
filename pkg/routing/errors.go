package routing

import (
	"errors"
	"fmt"
)

// Common routing errors that can be checked with errors.Is().
var (
	// ErrEmptyPrefix is returned when a route has no prefix.
	ErrEmptyPrefix = errors.New("route prefix is empty")

	// ErrNoLeadingSlash is returned when a prefix does not start with "/".
	ErrNoLeadingSlash = errors.New("route prefix must start with /")

	// ErrDuplicatePrefix is returned when two routes normalize to the same prefix.
	ErrDuplicatePrefix = errors.New("duplicate route prefix")

	// ErrInvalidUpstream is returned when an upstream is not an absolute http(s) URL.
	ErrInvalidUpstream = errors.New("invalid upstream url")
)

// RouteError describes why a single route was rejected by NewTable.
type RouteError struct {
	// Index is the position of the route in the slice passed to NewTable.
	Index int

	// Prefix is the prefix as configured.
	Prefix string

	// Err is one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	return fmt.Sprintf("route %d (%q): %v", e.Index, e.Prefix, e.Err)
}

// Unwrap returns the sentinel for errors.Is().
func (e *RouteError) Unwrap() error {
	return e.Err
}
