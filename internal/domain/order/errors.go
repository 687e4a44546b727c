package order

import "errors"

var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrDebitFailed     = errors.New("wallet debit failed after pins were allocated")
)
