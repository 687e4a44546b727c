package sourcing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns admin source-routing routes
func (h *Handler) AdminRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminOnly)

	r.Get("/", h.List)
	r.Get("/{tierID}", h.Get)
	r.Put("/{tierID}", h.Set)

	return r
}
