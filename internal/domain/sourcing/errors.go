package sourcing

import "errors"

var (
	ErrInvalidSource = errors.New("unknown source value")
	ErrUnknownTier   = errors.New("unknown price tier")
)
