package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/gamepin/gamepin-api/internal/domain/sourcing"
)

type Status string

const (
	// StatusPaid means pins were handed out and the wallet debit committed.
	StatusPaid Status = "paid"
	// StatusUnpaid means pins were handed out but the debit failed. Pins
	// cannot be taken back, so the order is kept for manual reconciliation.
	StatusUnpaid Status = "unpaid"
)

type Order struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	TierID        int       `db:"tier_id" json:"tier_id"`
	Requested     int       `db:"requested" json:"requested"`
	Obtained      int       `db:"obtained" json:"obtained"`
	UnitPrice     int64     `db:"unit_price" json:"unit_price"`
	AmountCharged int64     `db:"amount_charged" json:"amount_charged"`
	Status        Status    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type OrderPin struct {
	ID      int64           `db:"id" json:"-"`
	OrderID uuid.UUID       `db:"order_id" json:"-"`
	Code    string          `db:"code" json:"code"`
	Source  sourcing.Source `db:"source" json:"source"`
}
