package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gamepin/gamepin-api/internal/domain/allocation"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// InsertTx persists an order and its pin codes within the given transaction.
func (r *Repository) InsertTx(ctx context.Context, tx *sqlx.Tx, o *Order, pins []allocation.Pin) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, tier_id, requested, obtained, unit_price, amount_charged, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.UserID, o.TierID, o.Requested, o.Obtained, o.UnitPrice, o.AmountCharged, o.Status, o.CreatedAt)
	if err != nil {
		return err
	}

	for _, p := range pins {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_pins (order_id, code, source)
			VALUES ($1, $2, $3)
		`, o.ID, p.Code, p.Source); err != nil {
			return err
		}
	}
	return nil
}

// Insert persists an order and its pins in a transaction of its own. Used for
// unpaid reconciliation orders after the paid path has rolled back.
func (r *Repository) Insert(ctx context.Context, o *Order, pins []allocation.Pin) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.InsertTx(ctx, tx, o, pins); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) GetByID(ctx context.Context, id, userID uuid.UUID) (*OrderWithPins, error) {
	var o OrderWithPins
	err := r.db.GetContext(ctx, &o.Order, `
		SELECT * FROM orders WHERE id = $1 AND user_id = $2
	`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	o.Pins = []OrderPin{}
	err = r.db.SelectContext(ctx, &o.Pins, `
		SELECT * FROM order_pins WHERE order_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return orders, err
}

// ListUnpaid returns orders awaiting manual reconciliation, newest first.
func (r *Repository) ListUnpaid(ctx context.Context, limit int) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, StatusUnpaid, limit)
	return orders, err
}
