package handlers

import (
	"net/http"

	"github.com/alfagnish/docai-api/internal/health"
)

// HealthHandler serves the liveness endpoints.
type HealthHandler struct {
	reporter *health.Reporter
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(reporter *health.Reporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// Health reports that the API is up. It never fails.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reporter.Report())
}
