package catalog

import "time"

// Tier is a catalog entry: a priced top-up package (e.g. "Free Fire 110").
// Tiers are never deleted, only deactivated.
type Tier struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	UnitPrice int64     `db:"unit_price" json:"unit_price"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
