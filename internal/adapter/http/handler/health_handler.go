package handler

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler creates a HealthHandler probing checks by name.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if every dependency answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	result := map[string]string{"status": "ready"}
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, name+" unhealthy", err.Error())
			return
		}
		result[name] = "ok"
	}

	writeJSON(w, http.StatusOK, result)
}
