package routing

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

// Route maps a path prefix to an upstream base URL.
type Route struct {
	// Prefix is the normalized path prefix, e.g. "/api" or "/".
	Prefix string

	// Upstream is the absolute base URL requests are forwarded to.
	Upstream string

	// Timeout overrides the forwarder's upstream timeout when non-zero.
	Timeout time.Duration
}

// IsRoot reports whether the route catches every path.
func (r Route) IsRoot() bool {
	return r.Prefix == "/"
}

// Table is an immutable set of routes in longest-prefix-first order.
// It is safe for concurrent use without synchronization.
type Table struct {
	routes []Route
}

// NewTable validates and orders routes. The input slice is copied.
func NewTable(routes []Route) (*Table, error) {
	out := make([]Route, 0, len(routes))
	seen := make(map[string]struct{}, len(routes))

	for i, r := range routes {
		if r.Prefix == "" {
			return nil, &RouteError{Index: i, Prefix: r.Prefix, Err: ErrEmptyPrefix}
		}
		if !strings.HasPrefix(r.Prefix, "/") {
			return nil, &RouteError{Index: i, Prefix: r.Prefix, Err: ErrNoLeadingSlash}
		}
		if !validUpstream(r.Upstream) {
			return nil, &RouteError{Index: i, Prefix: r.Prefix, Err: ErrInvalidUpstream}
		}

		r.Prefix = normalize(r.Prefix)
		if _, dup := seen[r.Prefix]; dup {
			return nil, &RouteError{Index: i, Prefix: r.Prefix, Err: ErrDuplicatePrefix}
		}
		seen[r.Prefix] = struct{}{}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Prefix) > len(out[j].Prefix)
	})

	return &Table{routes: out}, nil
}

// Match returns the first route whose prefix covers path. A path is covered
// when it equals the prefix or continues it with "/"; "/" covers everything.
func (t *Table) Match(path string) (Route, bool) {
	for _, r := range t.routes {
		if covers(r.Prefix, path) {
			return r, true
		}
	}
	return Route{}, false
}

// Patterns returns the chi patterns to register for route: the bare prefix
// and the wildcard capturing the remainder.
func (t *Table) Patterns(route Route) []string {
	if route.IsRoot() {
		return []string{"/", "/*"}
	}
	return []string{route.Prefix, route.Prefix + "/*"}
}

// Routes returns a copy of the table in match order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Rewrite strips the route prefix from path. An empty remainder becomes "/".
func Rewrite(route Route, path string) string {
	rest := path
	if !route.IsRoot() {
		rest = strings.TrimPrefix(path, route.Prefix)
	}
	if rest == "" {
		return "/"
	}
	return rest
}

// Target joins the upstream base URL with the rewritten path and raw query
// of u. The prefix is stripped from the escaped path, so encoded bytes such
// as %3F and %2F reach the upstream as the client sent them.
func Target(route Route, u *url.URL) string {
	target := strings.TrimRight(route.Upstream, "/") + escapedRemainder(route, u)
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}

// escapedRemainder rewrites the escaped form of u's path. When the client
// encoded bytes of the prefix itself, the escaped path no longer starts with
// it and the decoded remainder is escaped again instead.
func escapedRemainder(route Route, u *url.URL) string {
	escaped := u.EscapedPath()
	if route.IsRoot() || covers(route.Prefix, escaped) {
		return Rewrite(route, escaped)
	}
	return (&url.URL{Path: Rewrite(route, u.Path)}).EscapedPath()
}

func covers(prefix, path string) bool {
	if prefix == "/" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// normalize trims trailing slashes, keeping "/" intact.
func normalize(prefix string) string {
	trimmed := strings.TrimRight(prefix, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

func validUpstream(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
