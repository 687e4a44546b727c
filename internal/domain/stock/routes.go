package stock

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns admin stock routes
func (h *Handler) AdminRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminOnly)

	r.Get("/", h.Counts)
	r.Get("/{tierID}", h.CountByTier)
	r.Post("/", h.Add)
	r.Post("/batch", h.AddBatch)

	return r
}
