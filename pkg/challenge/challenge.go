package challenge

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ChallengePath is the HTTP-01 challenge prefix defined by RFC 8555.
const ChallengePath = "/.well-known/acme-challenge/"

// DefaultRedirectStatus is used when Options.RedirectStatus is zero.
const DefaultRedirectStatus = http.StatusMovedPermanently

// Options configures the plaintext handler.
type Options struct {
	// DefaultHost is used in the redirect target when the request carries
	// no Host header.
	DefaultHost string

	// RedirectStatus is 301, 302, 307 or 308. Zero means 301.
	RedirectStatus int
}

// New returns the handler for the plaintext listener. Challenge requests go
// to responder, and a nil responder answers them with 404. Every other
// request is redirected to the same host and path over https.
func New(responder http.Handler, opts Options) http.Handler {
	if responder == nil {
		responder = http.NotFoundHandler()
	}
	if opts.RedirectStatus == 0 {
		opts.RedirectStatus = DefaultRedirectStatus
	}

	redirect := redirectHandler(opts)

	r := chi.NewRouter()
	r.Handle(ChallengePath+"*", responder)
	r.Handle("/", redirect)
	r.Handle("/*", redirect)
	r.NotFound(redirect)
	r.MethodNotAllowed(redirect)
	return r
}

func redirectHandler(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, Target(r, opts.DefaultHost), opts.RedirectStatus)
	}
}

// Target builds the https URL for r: the request host without its port,
// falling back to defaultHost, followed by the path and raw query.
func Target(r *http.Request, defaultHost string) string {
	host := stripPort(r.Host)
	if host == "" {
		host = defaultHost
	}

	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(host)

	path := r.URL.EscapedPath()
	if path == "" {
		path = "/"
	}
	b.WriteString(path)

	if r.URL.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(r.URL.RawQuery)
	}
	return b.String()
}

// stripPort removes a trailing port, keeping IPv6 literals bracketed.
func stripPort(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}
