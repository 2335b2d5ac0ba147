package handlers

import (
	"net/http"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	backend, err := h.HealthService.Check(r.Context())
	if err != nil {
		if h.Log != nil {
			h.Log.WithError(err).WithField("storage", backend).Warn("health check failed")
		}
		writeSuccess(w, HealthResponse{Status: "unavailable", Storage: backend}, http.StatusServiceUnavailable)
		return
	}
	writeSuccess(w, HealthResponse{Status: "ok", Storage: backend}, http.StatusOK)
}
