package stock

import "errors"

var (
	ErrOutOfStock    = errors.New("no unconsumed pins for tier")
	ErrDuplicateCode = errors.New("pin code already in stock for tier")
	ErrUnknownTier   = errors.New("unknown price tier")
	ErrEmptyCode     = errors.New("empty pin code")
)
