// Package handler provides HTTP handlers for the REST API.
package handler

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/remiblancher/cinema-pki/internal/api/dto"
)

// HealthHandler handles health and readiness endpoints.
type HealthHandler struct {
	version  string
	storeDir string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version, storeDir string) *HealthHandler {
	return &HealthHandler{version: version, storeDir: storeDir}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]bool{
		"server": true,
		"store":  h.storeWritable(),
	}

	allReady := true
	for _, ready := range checks {
		if !ready {
			allReady = false
			break
		}
	}

	status := http.StatusOK
	if !allReady {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, dto.ReadyResponse{Ready: allReady, Checks: checks})
}

// storeWritable checks that the store directory exists or can be created.
func (h *HealthHandler) storeWritable() bool {
	if err := os.MkdirAll(h.storeDir, 0755); err != nil {
		return false
	}
	return true
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, apiErr *dto.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
