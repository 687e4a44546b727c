package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns admin tooling routes
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminOnly)
	r.Post("/vendor/test", h.VendorTest)

	return r
}
