package vendorapi

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The vendor returns three response shapes depending on which of its backends
// answered: clean JSON, JSON buried inside an HTML-wrapped message field, or
// freeform text with the code somewhere in it. Parsing tries them in that order.

var (
	embeddedJSONRe = regexp.MustCompile(`\{[^{}]*\}`)
	pinCodeRe      = regexp.MustCompile(`\b[A-Za-z0-9]{10,20}\b`)
)

// noStockKeywords mark vendor-reported exhaustion or rejection. Checked before
// the freeform fallback so an error page never parses as a success.
var noStockKeywords = []string{
	"sin stock",
	"no stock",
	"sin pines",
	"agotado",
	"no disponible",
	"sin saldo",
	"error",
	"fail",
}

type vendorPayload struct {
	Pin     string `json:"pin"`
	Codigo  string `json:"codigo"`
	Message string `json:"message"`
	Mensaje string `json:"mensaje"`
	Status  string `json:"status"`
}

// ParsePinResponse normalizes a raw vendor response body into a pin code.
// Returns ErrNoStock when the body carries a stock-out/error keyword, or a
// parse error when no plausible code can be extracted.
func ParsePinResponse(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", fmt.Errorf("empty vendor response")
	}

	// Shape (a): well-formed JSON with a pin/codigo field.
	var payload vendorPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		if code := payload.code(); code != "" {
			return code, nil
		}
		// JSON without a code: the message field may carry embedded JSON or
		// the code itself, fall through with the message text.
		if msg := payload.message(); msg != "" {
			trimmed = msg
		}
	}

	if hasNoStockKeyword(trimmed) {
		return "", ErrNoStock
	}

	// Shape (b): JSON object embedded in HTML-wrapped text.
	if m := embeddedJSONRe.FindString(trimmed); m != "" {
		var embedded vendorPayload
		if err := json.Unmarshal([]byte(m), &embedded); err == nil {
			if code := embedded.code(); code != "" {
				return code, nil
			}
		}
	}

	// Shape (c): freeform text, extract an alphanumeric code of plausible length.
	if code := extractCode(trimmed); code != "" {
		return code, nil
	}

	return "", fmt.Errorf("no pin code in vendor response")
}

func (p vendorPayload) code() string {
	if c := strings.TrimSpace(p.Pin); c != "" {
		return c
	}
	return strings.TrimSpace(p.Codigo)
}

func (p vendorPayload) message() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Mensaje
}

func hasNoStockKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range noStockKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractCode finds the first alphanumeric run of 10-20 chars that contains at
// least one digit. Stripping tags first keeps HTML attribute values out.
func extractCode(s string) string {
	s = stripTags(s)
	for _, m := range pinCodeRe.FindAllString(s, -1) {
		if strings.ContainsAny(m, "0123456789") {
			return m
		}
	}
	return ""
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return tagRe.ReplaceAllString(s, " ")
}
