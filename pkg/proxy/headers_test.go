package proxy

import (
	"net/http"
	"testing"
)

func TestOutboundHeaders(t *testing.T) {
	in := http.Header{}
	in.Set("Connection", "keep-alive, X-Trace-Hop")
	in.Set("Keep-Alive", "timeout=5")
	in.Set("X-Trace-Hop", "1")
	in.Set("Transfer-Encoding", "chunked")
	in.Set("Trailer", "Expires")
	in.Set("Host", "luciuz.com")
	in.Set("Accept", "text/html")

	out := outboundHeaders(in)

	for _, h := range []string{"Connection", "Keep-Alive", "X-Trace-Hop", "Transfer-Encoding", "Trailer", "Host"} {
		if v := out.Get(h); v != "" {
			t.Errorf("expected %s to be dropped, got %q", h, v)
		}
	}
	if out.Get("Accept") != "text/html" {
		t.Error("expected Accept to be kept")
	}
	if in.Get("Connection") == "" {
		t.Error("outboundHeaders modified its input")
	}
}

func TestCopyResponseHeaders(t *testing.T) {
	src := http.Header{}
	src.Set("Connection", "X-Internal")
	src.Set("X-Internal", "secret")
	src.Set("Upgrade", "h2c")
	src.Set("Host", "leak.example")
	src.Add("Set-Cookie", "a=1")
	src.Add("Set-Cookie", "b=2")

	dst := http.Header{}
	copyResponseHeaders(dst, src)

	if len(dst.Values("Set-Cookie")) != 2 {
		t.Errorf("expected both cookies, got %v", dst.Values("Set-Cookie"))
	}
	for _, h := range []string{"Connection", "X-Internal", "Upgrade", "Host"} {
		if v := dst.Get(h); v != "" {
			t.Errorf("expected %s to be dropped, got %q", h, v)
		}
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		kind   ErrorKind
		status int
		body   string
	}{
		{KindPayloadTooLarge, http.StatusRequestEntityTooLarge, "payload too large"},
		{KindBadGateway, http.StatusBadGateway, "bad gateway"},
		{KindGatewayTimeout, http.StatusGatewayTimeout, "gateway timeout"},
		{KindNoRoute, http.StatusNotFound, "no route"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if tt.kind.Status() != tt.status {
				t.Errorf("Status() = %d, want %d", tt.kind.Status(), tt.status)
			}
			if tt.kind.Body() != tt.body {
				t.Errorf("Body() = %q, want %q", tt.kind.Body(), tt.body)
			}
		})
	}
}
