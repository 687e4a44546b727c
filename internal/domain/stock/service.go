package stock

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// AddPin stores one pin code for a tier.
func (s *Service) AddPin(ctx context.Context, tierID int, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}
	if err := s.repo.Insert(ctx, tierID, code); err != nil {
		return err
	}
	log.Info().Int("tier_id", tierID).Msg("pin added to local stock")
	return nil
}

// AddBatch stores many pin codes for a tier, ignoring blanks and duplicates.
// Returns the number actually inserted.
func (s *Service) AddBatch(ctx context.Context, tierID int, codes []string) (int, error) {
	cleaned := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}

	inserted, err := s.repo.InsertBatch(ctx, tierID, cleaned)
	if err != nil {
		return 0, err
	}

	log.Info().Int("tier_id", tierID).Int("submitted", len(cleaned)).Int("inserted", inserted).
		Msg("pin batch added to local stock")
	return inserted, nil
}

// Count returns available stock for one tier.
func (s *Service) Count(ctx context.Context, tierID int) (int, error) {
	return s.repo.Count(ctx, tierID)
}

// Counts returns available stock for every tier that has any.
func (s *Service) Counts(ctx context.Context) (map[int]int, error) {
	return s.repo.CountAll(ctx)
}
