package handler

import (
	"net/http"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/service"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	healthChecker *service.HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthChecker *service.HealthChecker) *HealthHandler {
	return &HealthHandler{healthChecker: healthChecker}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status, err := h.healthChecker.CheckHealth()
	if err != nil {
		WriteInternalError(w)
		return
	}

	httpStatus := http.StatusOK
	if status.Status == service.StatusUnhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	WriteJSON(w, httpStatus, status)
}
