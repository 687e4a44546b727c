package auth

import "github.com/gamepin/gamepin-api/internal/domain/user"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	User        *user.User `json:"user"`
}
