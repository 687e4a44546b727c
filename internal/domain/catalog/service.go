package catalog

import (
	"context"

	"github.com/rs/zerolog/log"
)

type Service struct {
	repo  *Repository
	cache *PriceCache
}

func NewService(repo *Repository, cache *PriceCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetTier returns a tier by id, serving from the price cache when possible.
func (s *Service) GetTier(ctx context.Context, id int) (*Tier, error) {
	if t, ok := s.cache.Get(ctx, id); ok {
		return t, nil
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, t)
	return t, nil
}

// GetActiveTier returns a tier only if it is purchasable.
func (s *Service) GetActiveTier(ctx context.Context, id int) (*Tier, error) {
	t, err := s.GetTier(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, ErrInactive
	}
	return t, nil
}

func (s *Service) ListTiers(ctx context.Context, includeInactive bool) ([]Tier, error) {
	return s.repo.List(ctx, !includeInactive)
}

func (s *Service) TierExists(ctx context.Context, id int) (bool, error) {
	if _, ok := s.cache.Get(ctx, id); ok {
		return true, nil
	}
	return s.repo.Exists(ctx, id)
}

func (s *Service) CreateTier(ctx context.Context, req *CreateTierRequest) (*Tier, error) {
	t, err := s.repo.Create(ctx, req.Name, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	log.Info().Int("tier_id", t.ID).Str("name", t.Name).Int64("unit_price", t.UnitPrice).Msg("price tier created")
	return t, nil
}

func (s *Service) UpdateTier(ctx context.Context, id int, req *UpdateTierRequest) (*Tier, error) {
	t, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	log.Info().Int("tier_id", id).Msg("price tier updated, cache invalidated")
	return t, nil
}
