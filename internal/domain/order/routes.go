package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user-facing order routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Post("/", h.Purchase)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	return r
}

// AdminRoutes returns admin order routes
func (h *Handler) AdminRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminOnly)
	r.Get("/unpaid", h.ListUnpaid)

	return r
}
