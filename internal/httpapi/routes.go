package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wordchain/backend/internal/hub"
	"github.com/wordchain/backend/internal/identity"
	"github.com/wordchain/backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, idp identity.Provider, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/sessions", CreateSession(h, idp, log))
	r.Get("/sessions/{code}", GetSession(h))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, idp, log))
	return r
}
