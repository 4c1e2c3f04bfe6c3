package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

type FollowupHandler struct {
	Followups usecase.FollowupRepositoryInterface
}

func NewFollowupHandler(followups usecase.FollowupRepositoryInterface) *FollowupHandler {
	return &FollowupHandler{Followups: followups}
}

// HandleListPending returns every followup still waiting to be sent.
func (h *FollowupHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	followups, err := h.Followups.FindPending(r.Context())
	if err != nil {
		http.Error(w, "erro ao consultar followups", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(followups)
}
