package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
)

// ExecutionHandler exposes the workflow execution audit trail, the
// operator's "why didn't this workflow fire" view
type ExecutionHandler struct {
	executionRepo repository.ExecutionRepository
}

// NewExecutionHandler creates a new execution handler
func NewExecutionHandler(executionRepo repository.ExecutionRepository) *ExecutionHandler {
	return &ExecutionHandler{executionRepo: executionRepo}
}

// List handles GET /api/executions with workflow_id/lead_id/status filters
func (h *ExecutionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := parsePagination(r)

	filters := repository.ExecutionFilters{Limit: limit, Offset: offset}
	if v := query.Get("workflow_id"); v != "" {
		filters.WorkflowID = &v
	}
	if v := query.Get("lead_id"); v != "" {
		filters.LeadID = &v
	}
	if v := query.Get("status"); v != "" {
		status := models.ExecutionStatus(v)
		switch status {
		case models.ExecutionStatusSuccess, models.ExecutionStatusSkipped, models.ExecutionStatusFailed:
			filters.Status = &status
		default:
			WriteValidationError(w, "status must be one of: success, skipped, failed")
			return
		}
	}

	executions, err := h.executionRepo.List(r.Context(), filters)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]interface{}{"executions": executions})
}

// Get handles GET /api/executions/{id}
func (h *ExecutionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	execution, err := h.executionRepo.GetByID(r.Context(), id)
	if err != nil {
		WriteNotFoundError(w, "execution", id)
		return
	}

	WriteOK(w, execution)
}
