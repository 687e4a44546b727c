package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns admin user management routes
func (h *Handler) AdminRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminOnly)

	r.Get("/{id}", h.GetByID)
	r.Put("/{id}/role", h.UpdateRole)

	return r
}
