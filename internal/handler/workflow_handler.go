package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/service"
)

// WorkflowHandler handles HTTP requests for workflow operations
type WorkflowHandler struct {
	workflowService *service.WorkflowService
	workflowRepo    repository.WorkflowRepository
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflowService *service.WorkflowService, workflowRepo repository.WorkflowRepository) *WorkflowHandler {
	return &WorkflowHandler{
		workflowService: workflowService,
		workflowRepo:    workflowRepo,
	}
}

// List handles GET /api/workflows
func (h *WorkflowHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	workflows, err := h.workflowRepo.List(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]interface{}{"workflows": workflows})
}

// Get handles GET /api/workflows/{id}
func (h *WorkflowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	workflow, err := h.workflowRepo.GetByID(r.Context(), id)
	if err != nil {
		WriteNotFoundError(w, "workflow", id)
		return
	}

	WriteOK(w, workflow)
}

// Trigger handles POST /api/workflows/{id}/trigger - the manual fire
// variant: runs the full pipeline for one workflow, bypassing the
// trigger-event lookup
func (h *WorkflowHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req TriggerEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	// A non-nil execution carries its own failure detail in the audit
	// record, so it is returned even when the pipeline reported an error
	execution, err := h.workflowService.DispatchWorkflow(r.Context(), id, req.ToTriggerContext())
	if execution == nil && err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, execution)
}

// parsePagination reads limit/offset query parameters with sane bounds
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
