package allocation

import "github.com/gamepin/gamepin-api/internal/domain/sourcing"

// Status is the overall outcome of one allocator call.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusPartialSuccess Status = "partial_success"
	StatusError          Status = "error"
)

// ErrorKind classifies allocation failures so callers can match on them
// instead of comparing message strings.
type ErrorKind string

const (
	ErrorKindNone              ErrorKind = ""
	ErrorKindOutOfStock        ErrorKind = "out_of_stock"
	ErrorKindInsufficientStock ErrorKind = "insufficient_stock"
	ErrorKindExternalVendor    ErrorKind = "external_vendor_error"
	ErrorKindValidation        ErrorKind = "validation_error"
)

// Pin is one allocated code and where it came from.
type Pin struct {
	Code   string          `json:"code"`
	Source sourcing.Source `json:"source"`
}

// Result reports exactly what an allocation obtained. Requested and Obtained
// are always both set so the caller can price on Obtained, never on Requested.
// Produced fresh per call, never persisted.
type Result struct {
	Status    Status    `json:"status"`
	Requested int       `json:"requested"`
	Obtained  int       `json:"obtained"`
	Pins      []Pin     `json:"pins"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Codes returns just the allocated code strings.
func (r *Result) Codes() []string {
	codes := make([]string, len(r.Pins))
	for i, p := range r.Pins {
		codes[i] = p.Code
	}
	return codes
}
