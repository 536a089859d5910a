package feedback

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strangerlabs/ghostline/internal/service/relay"
	"github.com/strangerlabs/ghostline/pkg/utils"
)

// Handler accepts thumbs up/down ratings for the last delivered reply.
type Handler struct {
	relay *relay.Relay
}

// New creates the feedback handler.
func New(r *relay.Relay) *Handler {
	return &Handler{relay: r}
}

// RegisterRoutes mounts the feedback routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/feedback", h.handleRate)
}

func (h *Handler) handleRate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
		Rating int    `json:"rating"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if payload.Rating != 1 && payload.Rating != -1 {
		utils.RespondError(w, http.StatusBadRequest, "rating must be 1 or -1")
		return
	}

	if err := h.relay.Rate(r.Context(), payload.UserID, payload.Rating); err != nil {
		if errors.Is(err, relay.ErrNoPendingExchange) {
			utils.RespondError(w, http.StatusNotFound, "no exchange awaiting a rating")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}
