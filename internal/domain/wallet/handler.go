package wallet

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/gamepin/gamepin-api/internal/middleware"
	"github.com/gamepin/gamepin-api/internal/pkg/response"
	"github.com/gamepin/gamepin-api/internal/pkg/validator"
)

// Handler handles wallet HTTP requests
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type grantRequest struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	Amount    int64     `json:"amount" validate:"required,gt=0"`
	Reference string    `json:"reference" validate:"required"`
}

// GetBalance handles GET /wallet
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.GetBalance(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]int64{"balance": balance})
}

// ListTransactions handles GET /wallet/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txs, err := h.svc.ListTransactions(r.Context(), middleware.GetUserID(r.Context()), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, txs)
}

// Refund handles POST /admin/wallets/refund. Used when reconciling unpaid
// orders or compensating customers.
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.Refund(r.Context(), req.UserID, req.Amount, req.Reference); err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "Invalid amount")
		case errors.Is(err, ErrReferenceConflict):
			response.Conflict(w, "Reference already used with a different amount")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"status": "refunded"})
}

// Grant handles POST /admin/wallets/grant
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.AdminGrant(r.Context(), req.UserID, req.Amount, req.Reference); err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "Invalid amount")
		case errors.Is(err, ErrReferenceConflict):
			response.Conflict(w, "Reference already used with a different amount")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"status": "granted"})
}
