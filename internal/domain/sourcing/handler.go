package sourcing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gamepin/gamepin-api/internal/pkg/response"
	"github.com/gamepin/gamepin-api/internal/pkg/validator"
)

// Handler handles admin source-routing HTTP requests
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type setSourceRequest struct {
	Source string `json:"source" validate:"required,source"`
}

// List handles GET /admin/sources
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, configs)
}

// Get handles GET /admin/sources/{tierID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.Atoi(chi.URLParam(r, "tierID"))
	if err != nil {
		response.BadRequest(w, "Invalid tier id")
		return
	}

	source, err := h.svc.GetSource(r.Context(), tierID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]interface{}{"tier_id": tierID, "source": source})
}

// Set handles PUT /admin/sources/{tierID}
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.Atoi(chi.URLParam(r, "tierID"))
	if err != nil {
		response.BadRequest(w, "Invalid tier id")
		return
	}

	var req setSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.SetSource(r.Context(), tierID, Source(req.Source)); err != nil {
		switch {
		case errors.Is(err, ErrInvalidSource):
			response.BadRequest(w, "Unknown source value")
		case errors.Is(err, ErrUnknownTier):
			response.NotFound(w, "Tier not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"tier_id": tierID, "source": req.Source})
}
