package stock

import "time"

// PinUnit is a single unconsumed redeemable code held in local inventory.
// Allocation hard-deletes the row, so this table only ever contains available
// stock and a per-tier count is the available count.
type PinUnit struct {
	ID        int64     `db:"id" json:"id"`
	TierID    int       `db:"tier_id" json:"tier_id"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
