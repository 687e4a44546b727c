package sourcing

import "time"

// Source says where a tier's pins come from. Exactly one source is active per
// tier; there is no blending within a tier.
type Source string

const (
	SourceLocal    Source = "local"
	SourceExternal Source = "external"
)

// Valid reports whether s is one of the two known sources.
func (s Source) Valid() bool {
	return s == SourceLocal || s == SourceExternal
}

type SourceConfig struct {
	TierID    int       `db:"tier_id" json:"tier_id"`
	Source    Source    `db:"source" json:"source"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
