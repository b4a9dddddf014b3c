// File: internal/handlers/health_handler.go
package handlers

import (
	"net/http"
	"time"
)

// Health reports process liveness. Provider reachability is deliberately not
// checked here; a flaky upstream must not fail the load balancer probe.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
