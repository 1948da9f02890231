package challenge

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_Redirects(t *testing.T) {
	h := New(nil, Options{DefaultHost: "luciuz.com"})

	tests := []struct {
		name   string
		method string
		target string
		host   string
		want   string
	}{
		{"path and query", http.MethodGet, "/docs/a?x=1&y=2", "luciuz.com", "https://luciuz.com/docs/a?x=1&y=2"},
		{"root", http.MethodGet, "/", "luciuz.com", "https://luciuz.com/"},
		{"port stripped", http.MethodGet, "/a", "luciuz.com:8080", "https://luciuz.com/a"},
		{"ipv6 port stripped", http.MethodGet, "/a", "[::1]:80", "https://[::1]/a"},
		{"missing host", http.MethodGet, "/a", "", "https://luciuz.com/a"},
		{"post is redirected", http.MethodPost, "/submit", "luciuz.com", "https://luciuz.com/submit"},
		{"escaped path kept", http.MethodGet, "/a%20b", "luciuz.com", "https://luciuz.com/a%20b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			req.Host = tt.host

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusMovedPermanently {
				t.Errorf("status = %d, want 301", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_RedirectStatus(t *testing.T) {
	for _, status := range []int{http.StatusFound, http.StatusTemporaryRedirect, http.StatusPermanentRedirect} {
		h := New(nil, Options{DefaultHost: "luciuz.com", RedirectStatus: status})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://luciuz.com/x", nil))

		if rec.Code != status {
			t.Errorf("status = %d, want %d", rec.Code, status)
		}
	}
}

func TestNew_ChallengeDelegated(t *testing.T) {
	var gotPath string
	responder := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, "key-authorization")
	})
	h := New(responder, Options{DefaultHost: "luciuz.com"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://luciuz.com/.well-known/acme-challenge/tok123", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "key-authorization" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if gotPath != "/.well-known/acme-challenge/tok123" {
		t.Errorf("responder saw path %q", gotPath)
	}
}

func TestNew_ChallengeWithoutResponder(t *testing.T) {
	h := New(nil, Options{DefaultHost: "luciuz.com"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://luciuz.com/.well-known/acme-challenge/tok123", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("challenge request was redirected to %q", loc)
	}
}
