package sourcing

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetSource reads a tier's configured source. Unconfigured tiers default to
// Local; the default is never persisted.
func (r *Repository) GetSource(ctx context.Context, tierID int) (Source, error) {
	var source Source
	err := r.db.GetContext(ctx, &source, `SELECT source FROM tier_sources WHERE tier_id = $1`, tierID)
	if errors.Is(err, sql.ErrNoRows) {
		return SourceLocal, nil
	}
	if err != nil {
		return SourceLocal, err
	}
	if !source.Valid() {
		// Rows written before the enum was closed fall back to Local.
		return SourceLocal, nil
	}
	return source, nil
}

// SetSource upserts a tier's source configuration.
func (r *Repository) SetSource(ctx context.Context, tierID int, source Source) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tier_sources (tier_id, source, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tier_id) DO UPDATE SET source = EXCLUDED.source, updated_at = now()
	`, tierID, source)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrUnknownTier
		}
		return err
	}
	return nil
}

// List returns every explicitly configured tier source.
func (r *Repository) List(ctx context.Context) ([]SourceConfig, error) {
	configs := []SourceConfig{}
	err := r.db.SelectContext(ctx, &configs, `SELECT * FROM tier_sources ORDER BY tier_id`)
	return configs, err
}
