package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gamepin/gamepin-api/internal/pkg/response"
	"github.com/gamepin/gamepin-api/internal/pkg/validator"
)

// Handler handles catalog HTTP requests
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /tiers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	tiers, err := h.svc.ListTiers(r.Context(), includeInactive)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, tiers)
}

// GetByID handles GET /tiers/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid tier id")
		return
	}

	t, err := h.svc.GetTier(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Tier not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, t)
}

// Create handles POST /admin/tiers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	t, err := h.svc.CreateTier(r.Context(), &req)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, t)
}

// Update handles PATCH /admin/tiers/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid tier id")
		return
	}

	var req UpdateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	t, err := h.svc.UpdateTier(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Tier not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, t)
}
