package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gamepin/gamepin-api/internal/domain/user"
	"github.com/gamepin/gamepin-api/internal/middleware"
	"github.com/gamepin/gamepin-api/internal/pkg/response"
	"github.com/gamepin/gamepin-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			response.Conflict(w, "Email already registered")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, resp)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCreds) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, resp)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, u)
}
