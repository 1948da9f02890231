package health

import (
	"encoding/json"
	"net/http"
)

// ReadinessHandler serves the aggregated report as JSON: 200 when ready,
// 503 otherwise.
//
// Example response:
//
//	{
//	    "status": "not_ready",
//	    "checks": {
//	        "certificates": {"status": "unhealthy", "message": "no certificate for luciuz.com"}
//	    },
//	    "timestamp": "2026-10-14T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		report := c.CheckReadiness(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if report.Ready() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if r.Method != http.MethodHead {
			_ = json.NewEncoder(w).Encode(report)
		}
	}
}
