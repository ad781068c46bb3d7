package api

import (
	"net/http"

	"github.com/medibook/consult/internal/consult"
)

type HealthHandler struct {
	svc     *consult.Service
	env     string
	version string
}

func NewHealthHandler(svc *consult.Service, env, version string) *HealthHandler {
	return &HealthHandler{
		svc:     svc,
		env:     env,
		version: version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status   string         `json:"status"`
	Version  string         `json:"version,omitempty"`
	Env      string         `json:"env,omitempty"`
	Counters map[string]int `json:"counters"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

// Readiness has no external dependencies to probe; it reports the engine's
// entity counters instead so operators can see the instance is serving state.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Stats()

	writeJSON(w, http.StatusOK, ReadinessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
		Counters: map[string]int{
			"patients":     stats.Patients,
			"doctors":      stats.Doctors,
			"appointments": stats.Appointments,
		},
	})
}
