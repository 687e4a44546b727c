package wallet

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user-facing wallet routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Get("/", h.GetBalance)
	r.Get("/transactions", h.ListTransactions)

	return r
}

// AdminRoutes returns admin wallet routes
func (h *Handler) AdminRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminOnly)
	r.Post("/grant", h.Grant)
	r.Post("/refund", h.Refund)

	return r
}
