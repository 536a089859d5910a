package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	feedbackHandler "github.com/strangerlabs/ghostline/internal/handler/feedback"
	personaHandler "github.com/strangerlabs/ghostline/internal/handler/persona"
	sessionHandler "github.com/strangerlabs/ghostline/internal/handler/session"
	"github.com/strangerlabs/ghostline/internal/handler/ws"
	middlewarePkg "github.com/strangerlabs/ghostline/internal/middleware"
	personaModel "github.com/strangerlabs/ghostline/internal/model/persona"
	"github.com/strangerlabs/ghostline/internal/service/relay"
	sessionService "github.com/strangerlabs/ghostline/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, sessions *sessionService.Manager, rly *relay.Relay, hub *ws.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(api chi.Router) {
		personaHandler.New(personas).RegisterRoutes(api)
		sessionHandler.New(sessions).RegisterRoutes(api)
		feedbackHandler.New(rly).RegisterRoutes(api)
		ws.New(hub, rly).RegisterRoutes(api)
	})

	return r
}
