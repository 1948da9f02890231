package proxy

import (
	"net/http"
	"net/textproto"
	"strings"
)

// hopByHopHeaders are connection-scoped and never forwarded in either direction.
var hopByHopHeaders = []string{
	"Connection",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

const (
	headerForwardedHost  = "X-Forwarded-Host"
	headerForwardedProto = "X-Forwarded-Proto"
)

// outboundHeaders copies the inbound headers minus the hop-by-hop set,
// anything the client listed in Connection, and Host.
func outboundHeaders(in http.Header) http.Header {
	out := in.Clone()
	if out == nil {
		out = make(http.Header)
	}
	removeHopByHop(out, in)
	out.Del("Host")
	return out
}

// copyResponseHeaders relays upstream headers to dst, skipping hop-by-hop
// ones, anything the upstream listed in Connection, and Host.
func copyResponseHeaders(dst, src http.Header) {
	skip := connectionTokens(src)
	for key, values := range src {
		canonical := textproto.CanonicalMIMEHeaderKey(key)
		if canonical == "Host" || isHopByHop(canonical) || skip[canonical] {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// removeHopByHop deletes hop-by-hop headers from h. Connection tokens are
// read from orig so that deleting Connection from h first does not lose them.
func removeHopByHop(h, orig http.Header) {
	for name := range connectionTokens(orig) {
		h.Del(name)
	}
	for _, name := range hopByHopHeaders {
		h.Del(name)
	}
}

func connectionTokens(h http.Header) map[string]bool {
	tokens := make(map[string]bool)
	for _, v := range h.Values("Connection") {
		for _, tok := range strings.Split(v, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				tokens[textproto.CanonicalMIMEHeaderKey(tok)] = true
			}
		}
	}
	return tokens
}

func isHopByHop(canonical string) bool {
	for _, name := range hopByHopHeaders {
		if canonical == name {
			return true
		}
	}
	return false
}
