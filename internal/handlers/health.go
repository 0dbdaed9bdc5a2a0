package handlers

import (
	"net/http"
	"runtime"
	"time"

	"listify/internal/logging"
	"listify/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	User    string `json:"user"`
	Error   string `json:"error,omitempty"`

	ContainerPlaylists int `json:"containerPlaylists"`
	StoredPlaylists    int `json:"storedPlaylists"`
	StoredTracks       int `json:"storedTracks"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports the store contents. It answers 503 when the store
// cannot be read.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		User:         h.user,
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	code := http.StatusOK
	if h.stats != nil {
		stats, err := h.stats.GetStats(r.Context())
		if err != nil {
			logging.Warn("health check: %v", err)
			response.Status = statusDegraded
			response.Error = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			response.ContainerPlaylists = stats.ContainerPlaylists
			response.StoredPlaylists = stats.StoredPlaylists
			response.StoredTracks = stats.StoredTracks
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}
