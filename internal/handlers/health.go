package handlers

import (
	"net/http"
	"time"

	"github.com/nahidhasan98/changelog-notifier/internal/models"
)

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := &models.HealthResponse{
		Status:    "ok",
		Delivery:  "disabled",
		Timestamp: time.Now().Unix(),
	}

	if h.deps.Publisher != nil {
		response.Delivery = h.deps.Publisher.Status()
	}

	status := http.StatusOK
	if err := h.deps.Store.Ping(r.Context()); err != nil {
		h.log.Error("Commit store health check failed", err)
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	h.writeJSON(w, response, status)
}
