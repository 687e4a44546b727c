package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gamepin/gamepin-api/internal/domain/user"
	"github.com/gamepin/gamepin-api/internal/domain/wallet"
	"github.com/gamepin/gamepin-api/internal/pkg/jwt"
	"github.com/gamepin/gamepin-api/internal/pkg/password"
)

type Service struct {
	users   *user.Repository
	wallets *wallet.Repository
	jwt     *jwt.Service
}

func NewService(users *user.Repository, wallets *wallet.Repository, jwtSvc *jwt.Service) *Service {
	return &Service{users: users, wallets: wallets, jwt: jwtSvc}
}

// Register creates a user with a zeroed wallet and returns an access token.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	if err := s.wallets.EnsureWallet(ctx, u.ID); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("user registered")
	return &AuthResponse{AccessToken: token, User: u}, nil
}

// Login verifies credentials and returns an access token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrInvalidCreds
		}
		return nil, err
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, user.ErrInvalidCreds
	}

	token, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{AccessToken: token, User: u}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}
