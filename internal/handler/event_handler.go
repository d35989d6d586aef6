package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/queue"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/service"
)

// TriggerEventRequest is the inbound payload for both the synchronous and
// the queued dispatch endpoints
type TriggerEventRequest struct {
	Event       string            `json:"event" validate:"required"`
	LeadID      string            `json:"lead_id" validate:"omitempty,uuid"`
	CustomerID  string            `json:"customer_id" validate:"omitempty,uuid"`
	TriggeredBy string            `json:"triggered_by"`
	Data        map[string]string `json:"data"`
}

// ToTriggerContext converts the request into the engine's trigger context
func (r *TriggerEventRequest) ToTriggerContext() *models.TriggerContext {
	tc := &models.TriggerContext{
		EventName: r.Event,
		Data:      models.Payload(r.Data),
	}
	if r.LeadID != "" {
		tc.LeadID = &r.LeadID
	}
	if r.CustomerID != "" {
		tc.CustomerID = &r.CustomerID
	}
	if r.TriggeredBy != "" {
		tc.TriggeredBy = &r.TriggeredBy
	}
	return tc
}

// EventHandler handles HTTP requests that feed events into the engine
type EventHandler struct {
	workflowService *service.WorkflowService
	publisher       *queue.Publisher
	validate        *validator.Validate
}

// NewEventHandler creates a new event handler. The publisher may be nil,
// in which case the async endpoint reports the queue as unavailable.
func NewEventHandler(workflowService *service.WorkflowService, publisher *queue.Publisher) *EventHandler {
	return &EventHandler{
		workflowService: workflowService,
		publisher:       publisher,
		validate:        validator.New(),
	}
}

// Dispatch handles POST /api/events - dispatches an event synchronously
// and returns the per-workflow outcome summary
func (h *EventHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	result, err := h.workflowService.Dispatch(r.Context(), req.Event, req.ToTriggerContext())
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, result)
}

// Enqueue handles POST /api/events/async - publishes the event to the
// automation queue for the worker to dispatch
func (h *EventHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	if h.publisher == nil {
		WriteError(w, http.StatusServiceUnavailable, "QUEUE_UNAVAILABLE", "Event queue is not configured")
		return
	}

	job := &queue.TriggerEventJob{
		Event:       req.Event,
		LeadID:      req.LeadID,
		CustomerID:  req.CustomerID,
		TriggeredBy: req.TriggeredBy,
		Data:        req.Data,
	}
	if err := h.publisher.PublishEvent(job); err != nil {
		log.Printf("ERROR: Failed to publish trigger event: %v", err)
		WriteInternalError(w)
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"event":  req.Event,
	})
}

// parseRequest decodes and validates the shared request body
func (h *EventHandler) parseRequest(w http.ResponseWriter, r *http.Request) (*TriggerEventRequest, bool) {
	var req TriggerEventRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return nil, false
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return nil, false
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteValidationError(w, err.Error())
		return nil, false
	}

	return &req, true
}
