package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"luciuz/edge/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:                 true,
		Namespace:               "test",
		UpstreamDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_DefaultsApplied(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	NewCollector(cfg, nil)

	if cfg.Namespace != "luciuz" {
		t.Errorf("Expected default namespace, got %q", cfg.Namespace)
	}
	if len(cfg.UpstreamDurationBuckets) != len(DefaultUpstreamDurationBuckets) {
		t.Errorf("Expected default buckets, got %v", cfg.UpstreamDurationBuckets)
	}
}

func TestCollector_RecordRequest(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordRequest("/api", 200, 120*time.Millisecond)
	collector.RecordRequest("/api", 200, 80*time.Millisecond)
	collector.RecordRequest("/api", 502, 0)
	collector.RecordRequest("/", 404, 0)

	if got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("/api", "200")); got != 2 {
		t.Errorf("Expected 2 successful /api requests, got %v", got)
	}
	if got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("/api", "502")); got != 1 {
		t.Errorf("Expected 1 failed /api request, got %v", got)
	}

	// Only requests that reached the upstream are observed.
	if got := testutil.CollectAndCount(collector.requestMetrics.upstreamDuration); got != 1 {
		t.Errorf("Expected 1 histogram series, got %d", got)
	}
}

func TestCollector_RecordBodyRejected(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordBodyRejected("/upload")

	if got := testutil.ToFloat64(collector.requestMetrics.bodyRejected.WithLabelValues("/upload")); got != 1 {
		t.Errorf("Expected 1 rejected body, got %v", got)
	}
}

func TestCollector_CertificateMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordCertificateEvent("luciuz.com", "started")
	collector.RecordCertificateEvent("luciuz.com", "completed")
	collector.RecordCertificateEvent("luciuz.com", "completed")

	if got := testutil.ToFloat64(collector.certificateMetrics.eventsTotal.WithLabelValues("luciuz.com", "completed")); got != 2 {
		t.Errorf("Expected 2 completed events, got %v", got)
	}

	notAfter := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	collector.SetCertificateExpiry("luciuz.com", notAfter)
	if got := testutil.ToFloat64(collector.certificateMetrics.expiry.WithLabelValues("luciuz.com")); got != float64(notAfter.Unix()) {
		t.Errorf("Expected expiry %d, got %v", notAfter.Unix(), got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordRequest("/api", 200, time.Second)
	collector.RecordCertificateEvent("luciuz.com", "failed")

	if got := testutil.CollectAndCount(collector.requestMetrics.requestsTotal); got != 0 {
		t.Errorf("Expected no series when disabled, got %d", got)
	}
}

func TestCollector_Nil(t *testing.T) {
	var collector *Collector

	// These should not panic
	collector.RecordRequest("/api", 200, time.Second)
	collector.RecordBodyRejected("/api")
	collector.RecordCertificateEvent("luciuz.com", "failed")
	collector.SetCertificateExpiry("luciuz.com", time.Now())

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 from nil collector, got %d", rec.Code)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordRequest("/api", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `test_requests_total{route="/api",status="200"} 1`) {
		t.Errorf("Expected request counter in exposition, got:\n%s", body)
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				collector.RecordRequest("/api", 200, time.Millisecond)
				collector.RecordCertificateEvent("luciuz.com", "completed")
			}
		}()
	}
	wg.Wait()

	count := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("/api", "200"))
	if count != 1000 {
		t.Errorf("Expected 1000 requests, got %f", count)
	}
}
