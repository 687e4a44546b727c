package stock

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

// Insert adds one unconsumed pin. (tier, code) uniqueness is enforced by the
// database; a duplicate insert fails instead of being cleaned up later.
func (r *Repository) Insert(ctx context.Context, tierID int, code string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pin_units (tier_id, code)
		VALUES ($1, $2)
	`, tierID, code)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return ErrDuplicateCode
			case "23503":
				return ErrUnknownTier
			}
		}
		return err
	}
	return nil
}

// InsertBatch adds many pins at once, skipping codes already present for the
// tier. Returns how many rows were actually inserted.
func (r *Repository) InsertBatch(ctx context.Context, tierID int, codes []string) (int, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pin_units (tier_id, code)
		SELECT $1, unnest($2::text[])
		ON CONFLICT (tier_id, code) DO NOTHING
	`, tierID, pq.Array(codes))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, ErrUnknownTier
		}
		return 0, err
	}

	inserted, _ := res.RowsAffected()
	return int(inserted), nil
}

// Count returns the available pin count for one tier.
func (r *Repository) Count(ctx context.Context, tierID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM pin_units WHERE tier_id = $1`, tierID)
	return count, err
}

// CountAll returns available pin counts keyed by tier id.
func (r *Repository) CountAll(ctx context.Context) (map[int]int, error) {
	rows := []struct {
		TierID int `db:"tier_id"`
		Count  int `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT tier_id, COUNT(*) AS count
		FROM pin_units
		GROUP BY tier_id
	`)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.TierID] = row.Count
	}
	return counts, nil
}

// TakeOne atomically removes one unconsumed pin for the tier and returns its
// code. Select and delete are a single statement so two concurrent takes can
// never observe the same row; SKIP LOCKED keeps concurrent takers from queuing
// on each other's candidate row.
func (r *Repository) TakeOne(ctx context.Context, tierID int) (string, error) {
	var code string
	err := r.db.GetContext(ctx, &code, `
		DELETE FROM pin_units
		WHERE id = (
			SELECT id FROM pin_units
			WHERE tier_id = $1
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING code
	`, tierID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOutOfStock
	}
	if err != nil {
		return "", err
	}
	return code, nil
}
