package proxy

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig tunes the shared outbound transport.
type ClientConfig struct {
	// MaxIdleConns caps idle connections across all upstreams.
	// Default: 100
	MaxIdleConns int

	// MaxIdleConnsPerHost caps idle connections per upstream.
	// Default: 16
	MaxIdleConnsPerHost int

	// IdleConnTimeout closes idle connections after this long.
	// Default: 90s
	IdleConnTimeout time.Duration

	// DialTimeout bounds TCP connection setup.
	// Default: 10s
	DialTimeout time.Duration
}

func (c *ClientConfig) applyDefaults() {
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 100
	}
	if c.MaxIdleConnsPerHost == 0 {
		c.MaxIdleConnsPerHost = 16
	}
	if c.IdleConnTimeout == 0 {
		c.IdleConnTimeout = 90 * time.Second
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 10 * time.Second
	}
}

// NewClient returns the HTTP client shared by every route. Redirects are
// returned to the caller unchanged instead of being followed, and no client
// timeout is set because the forwarder applies one per request.
func NewClient(cfg ClientConfig) *http.Client {
	cfg.applyDefaults()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
