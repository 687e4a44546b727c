package catalog

type CreateTierRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	UnitPrice int64  `json:"unit_price" validate:"required,gt=0"`
}

type UpdateTierRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	UnitPrice *int64  `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
	IsActive  *bool   `json:"is_active,omitempty"`
}
