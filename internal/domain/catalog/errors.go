package catalog

import "errors"

var (
	ErrNotFound = errors.New("price tier not found")
	ErrInactive = errors.New("price tier is inactive")
)
