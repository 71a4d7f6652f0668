package handlers

import (
	"net/http"
	"runtime"
	"time"

	"video-editor/internal/logging"
	"video-editor/internal/startup"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Error   string `json:"error,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Stats summary
	TotalProjects int        `json:"totalProjects"`
	TotalElements int        `json:"totalElements"`
	SchemaVersion string     `json:"schemaVersion,omitempty"`
	LastImport    *time.Time `json:"lastImport,omitempty"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        true,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if err := h.db.Ping(r.Context()); err != nil {
		logging.Warn("Health check: database unreachable: %v", err)
		response.Status = statusUnhealthy
		response.Ready = false
		response.Error = "database unreachable"
	} else if stats, err := h.db.GetStats(r.Context()); err == nil {
		response.TotalProjects = stats.TotalProjects
		response.TotalElements = stats.TotalElements
		response.SchemaVersion, _ = h.db.SchemaVersion(r.Context())
		if last, err := h.db.GetLastImport(r.Context()); err == nil && !last.IsZero() {
			response.LastImport = &last
		}
	}

	status := http.StatusOK
	if !response.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSONStatusCode(w, status, response)
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

// ReadinessCheck returns 200 only when the database answers
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		writeJSONStatusCode(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
		})
		return
	}
	writeJSONStatusCode(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
