package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strangerlabs/ghostline/internal/model/chat"
	sessionservice "github.com/strangerlabs/ghostline/internal/service/session"
	"github.com/strangerlabs/ghostline/pkg/utils"
)

// Handler exposes session lifecycle over HTTP.
type Handler struct {
	sessions *sessionservice.Manager
}

// New creates the session handler.
func New(sessions *sessionservice.Manager) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleStartSession)
	r.Get("/session/{userID}", h.handleGetSession)
	r.Delete("/session/{userID}", h.handleEndSession)
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID      string `json:"userId"`
		PersonaKey  string `json:"personaKey"`
		Gender      string `json:"gender"`
		Country     string `json:"country"`
		AgentGender string `json:"agentGender"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" || payload.PersonaKey == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId and personaKey are required")
		return
	}

	profile := chat.StrangerProfile{
		Gender:      payload.Gender,
		Country:     payload.Country,
		AgentGender: payload.AgentGender,
	}

	sess, err := h.sessions.Start(r.Context(), payload.UserID, payload.PersonaKey, profile)
	if err != nil {
		if errors.Is(err, sessionservice.ErrPersonaNotFound) {
			utils.RespondError(w, http.StatusNotFound, "persona not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sess)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	sess, ok := h.sessions.Get(userID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no active session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	h.sessions.End(r.Context(), userID)
	w.WriteHeader(http.StatusNoContent)
}
