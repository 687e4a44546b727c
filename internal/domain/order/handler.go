package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gamepin/gamepin-api/internal/domain/catalog"
	"github.com/gamepin/gamepin-api/internal/domain/wallet"
	"github.com/gamepin/gamepin-api/internal/middleware"
	"github.com/gamepin/gamepin-api/internal/pkg/response"
	"github.com/gamepin/gamepin-api/internal/pkg/validator"
)

// Handler handles order HTTP requests
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Purchase handles POST /orders
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.Purchase(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrInactive):
			response.NotFound(w, "Package not available")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.UnprocessableEntity(w, "INSUFFICIENT_FUNDS", "Wallet balance too low for this purchase")
		case errors.Is(err, ErrInvalidQuantity):
			response.BadRequest(w, "Invalid quantity")
		case errors.Is(err, ErrDebitFailed):
			response.Error(w, http.StatusConflict, "PAYMENT_PENDING",
				"Your pins were issued but payment did not complete, please contact support")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, resp)
}

// GetByID handles GET /orders/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid order id")
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Order not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, o)
}

// List handles GET /orders
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.svc.ListOrders(r.Context(), middleware.GetUserID(r.Context()), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, orders)
}

// ListUnpaid handles GET /admin/orders/unpaid
func (h *Handler) ListUnpaid(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, err := h.svc.ListUnpaid(r.Context(), limit)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, orders)
}
