package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns public catalog routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	return r
}

// AdminRoutes returns admin catalog routes
func (h *Handler) AdminRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminOnly)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)

	return r
}
