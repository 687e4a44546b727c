package order

import "github.com/gamepin/gamepin-api/internal/domain/allocation"

type PurchaseRequest struct {
	TierID   int `json:"tier_id" validate:"required,gt=0"`
	Quantity int `json:"quantity" validate:"required,gte=1,lte=10"`
}

type PurchaseResponse struct {
	Order  *Order             `json:"order,omitempty"`
	Result *allocation.Result `json:"result"`
}

type OrderWithPins struct {
	Order
	Pins []OrderPin `json:"pins"`
}
