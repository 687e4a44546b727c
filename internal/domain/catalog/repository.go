package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, name string, unitPrice int64) (*Tier, error) {
	var t Tier
	err := r.db.GetContext(ctx, &t, `
		INSERT INTO price_tiers (name, unit_price, is_active)
		VALUES ($1, $2, true)
		RETURNING id, name, unit_price, is_active, created_at, updated_at
	`, name, unitPrice)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) Update(ctx context.Context, id int, req *UpdateTierRequest) (*Tier, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.UnitPrice != nil {
		existing.UnitPrice = *req.UnitPrice
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, `
		UPDATE price_tiers
		SET name = $1, unit_price = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`, existing.Name, existing.UnitPrice, existing.IsActive, existing.UpdatedAt, id)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Tier, error) {
	var t Tier
	err := r.db.GetContext(ctx, &t, `SELECT * FROM price_tiers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) List(ctx context.Context, activeOnly bool) ([]Tier, error) {
	tiers := []Tier{}
	query := `SELECT * FROM price_tiers ORDER BY id`
	if activeOnly {
		query = `SELECT * FROM price_tiers WHERE is_active = true ORDER BY id`
	}
	err := r.db.SelectContext(ctx, &tiers, query)
	return tiers, err
}

// Exists reports whether a tier id is known, active or not.
func (r *Repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM price_tiers WHERE id = $1)`, id)
	return exists, err
}
