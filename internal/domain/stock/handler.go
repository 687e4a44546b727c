package stock

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gamepin/gamepin-api/internal/pkg/response"
	"github.com/gamepin/gamepin-api/internal/pkg/validator"
)

// Handler handles admin stock HTTP requests
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type addPinRequest struct {
	TierID int    `json:"tier_id" validate:"required,gt=0"`
	Code   string `json:"code" validate:"required,min=4,max=64"`
}

type addBatchRequest struct {
	TierID int      `json:"tier_id" validate:"required,gt=0"`
	Codes  []string `json:"codes" validate:"required,min=1,max=1000"`
}

// Add handles POST /admin/stock
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req addPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.AddPin(r.Context(), req.TierID, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateCode):
			response.Conflict(w, "Code already in stock for this tier")
		case errors.Is(err, ErrEmptyCode):
			response.BadRequest(w, "Pin code must not be blank")
		case errors.Is(err, ErrUnknownTier):
			response.NotFound(w, "Tier not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, map[string]string{"status": "added"})
}

// AddBatch handles POST /admin/stock/batch
func (h *Handler) AddBatch(w http.ResponseWriter, r *http.Request) {
	var req addBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	inserted, err := h.svc.AddBatch(r.Context(), req.TierID, req.Codes)
	if err != nil {
		if errors.Is(err, ErrUnknownTier) {
			response.NotFound(w, "Tier not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, map[string]int{
		"submitted": len(req.Codes),
		"inserted":  inserted,
	})
}

// Counts handles GET /admin/stock
func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Counts(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, counts)
}

// CountByTier handles GET /admin/stock/{tierID}
func (h *Handler) CountByTier(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.Atoi(chi.URLParam(r, "tierID"))
	if err != nil {
		response.BadRequest(w, "Invalid tier id")
		return
	}

	count, err := h.svc.Count(r.Context(), tierID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]int{"tier_id": tierID, "count": count})
}
