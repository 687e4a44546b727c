package vendorapi

import (
	"errors"
	"testing"
)

func TestParsePinResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "clean json pin field",
			body: `{"status":"ok","pin":"FF1234567890"}`,
			want: "FF1234567890",
		},
		{
			name: "clean json codigo field",
			body: `{"codigo":"BS9988776655"}`,
			want: "BS9988776655",
		},
		{
			name: "json embedded in html message",
			body: `<html><body><p>{"pin":"ABCD1234EFGH"}</p></body></html>`,
			want: "ABCD1234EFGH",
		},
		{
			name: "json message field carrying embedded json",
			body: `{"message":"<b>{\"codigo\":\"ZX12CV34BN56\"}</b>"}`,
			want: "ZX12CV34BN56",
		},
		{
			name: "freeform text with code",
			body: `Recarga exitosa. Su codigo es 4821DK39SL27QPWE gracias por su compra`,
			want: "4821DK39SL27QPWE",
		},
		{
			name: "freeform html with code",
			body: `<div class="ok">PIN entregado: <span>9933AAEE1122BB</span></div>`,
			want: "9933AAEE1122BB",
		},
		{
			name: "code with surrounding noise words",
			body: `ok entrega completada 1234567890AB fin`,
			want: "1234567890AB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePinResponse(tt.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected code %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParsePinResponseNoStock(t *testing.T) {
	bodies := []string{
		`{"status":"error","message":"sin stock disponible"}`,
		`SIN STOCK`,
		`<html>Lo sentimos, producto agotado</html>`,
		`{"mensaje":"no disponible en este momento"}`,
		`Error: sin saldo en la cuenta`,
	}

	for _, body := range bodies {
		if _, err := ParsePinResponse(body); !errors.Is(err, ErrNoStock) {
			t.Errorf("body %q: expected ErrNoStock, got %v", body, err)
		}
	}
}

func TestParsePinResponseUnparseable(t *testing.T) {
	bodies := []string{
		"",
		"ok",
		`{"status":"ok"}`,
		// 10-20 char runs with no digit are not plausible pin codes
		`respuesta procesada correctamente`,
	}

	for _, body := range bodies {
		code, err := ParsePinResponse(body)
		if err == nil {
			t.Errorf("body %q: expected error, got code %q", body, code)
		}
		if errors.Is(err, ErrNoStock) {
			t.Errorf("body %q: unparseable must not classify as no-stock", body)
		}
	}
}

func TestParsePinResponseNeverEmptySuccess(t *testing.T) {
	// A success must always carry a code; an empty pin field falls through.
	code, err := ParsePinResponse(`{"pin":""}`)
	if err == nil {
		t.Fatalf("expected error for empty pin field, got code %q", code)
	}
}
