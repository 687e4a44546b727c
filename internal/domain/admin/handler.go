package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/gamepin/gamepin-api/internal/pkg/response"
)

// VendorTester probes the external vendor endpoint.
type VendorTester interface {
	TestConnection(ctx context.Context) (bool, string)
}

// Handler handles admin tooling endpoints that belong to no single domain.
type Handler struct {
	vendor VendorTester
}

func NewHandler(vendor VendorTester) *Handler {
	return &Handler{vendor: vendor}
}

// VendorTest handles POST /admin/vendor/test. Fires a harmless probe so
// operators can distinguish "vendor is down" from "vendor is empty".
func (h *Handler) VendorTest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	ok, message := h.vendor.TestConnection(ctx)
	response.OK(w, map[string]interface{}{
		"reachable": ok,
		"message":   message,
	})
}
