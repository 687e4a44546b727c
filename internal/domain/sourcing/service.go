package sourcing

import (
	"context"

	"github.com/rs/zerolog/log"
)

// TierChecker reports whether a tier id exists in the catalog.
type TierChecker interface {
	TierExists(ctx context.Context, id int) (bool, error)
}

type Service struct {
	repo  *Repository
	tiers TierChecker
}

func NewService(repo *Repository, tiers TierChecker) *Service {
	return &Service{repo: repo, tiers: tiers}
}

// GetSource resolves where a tier's pins come from. Never fails validation:
// unconfigured tiers are Local.
func (s *Service) GetSource(ctx context.Context, tierID int) (Source, error) {
	return s.repo.GetSource(ctx, tierID)
}

// SetSource routes a tier to Local or External stock. Validates both the
// source value and that the tier exists before touching the config.
func (s *Service) SetSource(ctx context.Context, tierID int, source Source) error {
	if !source.Valid() {
		return ErrInvalidSource
	}

	exists, err := s.tiers.TierExists(ctx, tierID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownTier
	}

	if err := s.repo.SetSource(ctx, tierID, source); err != nil {
		return err
	}

	log.Info().Int("tier_id", tierID).Str("source", string(source)).Msg("tier source updated")
	return nil
}

// List returns all explicitly configured sources.
func (s *Service) List(ctx context.Context) ([]SourceConfig, error) {
	return s.repo.List(ctx)
}
