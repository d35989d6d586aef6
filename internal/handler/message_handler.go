package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
)

// MessageHandler exposes scheduled messages read-only. The downstream
// sender polls /api/messages?status=scheduled&due=true for work; all
// status transitions after 'scheduled' belong to it, not this service.
type MessageHandler struct {
	messageRepo repository.MessageRepository
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageRepo repository.MessageRepository) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo}
}

// List handles GET /api/messages with status/due filters
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := parsePagination(r)

	filters := repository.MessageFilters{Limit: limit, Offset: offset}
	if v := query.Get("status"); v != "" {
		status := models.MessageStatus(v)
		filters.Status = &status
	}
	if query.Get("due") == "true" {
		now := time.Now()
		filters.DueBy = &now
	}

	messages, err := h.messageRepo.List(r.Context(), filters)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]interface{}{"messages": messages})
}

// Get handles GET /api/messages/{id}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	message, err := h.messageRepo.GetByID(r.Context(), id)
	if err != nil {
		WriteNotFoundError(w, "scheduled message", id)
		return
	}

	WriteOK(w, message)
}
