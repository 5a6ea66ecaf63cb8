package health

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apphealth "forgeai/omega_gateway/internal/application/health"
)

// Handler bridges HTTP traffic with the health application service.
type Handler struct {
	service *apphealth.Service
	log     *slog.Logger
}

func NewHandler(service *apphealth.Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Status writes the current snapshot. A degraded snapshot is served with 503
// so load balancers can react; the body is the same either way.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	snapshot := h.service.GetHealth(r.Context())

	statusCode := http.StatusOK
	if !snapshot.Healthy() {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(snapshot); err != nil && h.log != nil {
		h.log.Error("failed to encode health response", "error", err)
	}
}
