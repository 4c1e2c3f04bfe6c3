package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

// ReplyRegistrar is the slice of the scheduler the webhook needs.
type ReplyRegistrar interface {
	RegisterReply(ctx context.Context, contactID string) error
}

// ReplyHandler is the reply-detection entry point: whatever watches the
// inboxes posts here when a contact answers, which flags the pending
// followup so the next due-check sweep cancels it.
type ReplyHandler struct {
	Scheduler ReplyRegistrar
}

func NewReplyHandler(scheduler ReplyRegistrar) *ReplyHandler {
	return &ReplyHandler{Scheduler: scheduler}
}

type ReplyRequest struct {
	ContactID string `json:"contact_id"`
}

type ReplyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (h *ReplyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := h.Scheduler.RegisterReply(r.Context(), req.ContactID); err != nil {
		status := http.StatusInternalServerError
		if usecase.IsDomainError(err) {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(ReplyResponse{Success: false, Message: err.Error()})
		return
	}

	json.NewEncoder(w).Encode(ReplyResponse{Success: true})
}
