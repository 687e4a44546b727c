package vendorapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(Config{
		BaseURL:  baseURL,
		User:     "testuser",
		Password: "testpass",
		Timeout:  timeout,
	})
}

func TestRequestPinSuccess(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"usuario": r.URL.Query().Get("usuario"),
			"clave":   r.URL.Query().Get("clave"),
			"tipo":    r.URL.Query().Get("tipo"),
			"numero":  r.URL.Query().Get("numero"),
		}
		w.Write([]byte(`{"status":"ok","pin":"FF1234567890"}`))
	}))
	defer server.Close()

	client := testClient(server.URL, 5*time.Second)

	code, err := client.RequestPin(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "FF1234567890" {
		t.Errorf("expected pin FF1234567890, got %q", code)
	}

	if gotPath != "/api/recarga" {
		t.Errorf("expected path /api/recarga, got %q", gotPath)
	}
	if gotQuery["usuario"] != "testuser" || gotQuery["clave"] != "testpass" {
		t.Errorf("credentials not forwarded: %v", gotQuery)
	}
	if gotQuery["tipo"] != "101" {
		t.Errorf("tier 1 should map to vendor tipo 101, got %q", gotQuery["tipo"])
	}
	if len(gotQuery["numero"]) != 8 {
		t.Errorf("expected 8-digit numero, got %q", gotQuery["numero"])
	}
}

func TestRequestPinNoStock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"sin stock disponible"}`))
	}))
	defer server.Close()

	client := testClient(server.URL, 5*time.Second)

	if _, err := client.RequestPin(context.Background(), 2); !errors.Is(err, ErrNoStock) {
		t.Fatalf("expected ErrNoStock, got %v", err)
	}
}

func TestRequestPinUnmappedTierSkipsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unmapped tier must not reach the vendor")
	}))
	defer server.Close()

	client := testClient(server.URL, 5*time.Second)

	if _, err := client.RequestPin(context.Background(), 999); !errors.Is(err, ErrUnmappedTier) {
		t.Fatalf("expected ErrUnmappedTier, got %v", err)
	}
}

func TestRequestPinHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL, 5*time.Second)

	_, err := client.RequestPin(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "status=502") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestRequestPinTimeoutClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"pin":"FF1234567890"}`))
	}))
	defer server.Close()

	client := testClient(server.URL, 50*time.Millisecond)

	_, err := client.RequestPin(context.Background(), 1)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout classification, got %v", err)
	}
}

func TestRequestPinConnectionRefusedClassified(t *testing.T) {
	// Grab a port that nothing is listening on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := testClient(addr, 2*time.Second)

	_, err := client.RequestPin(context.Background(), 1)
	if err == nil {
		t.Fatal("expected network error")
	}
	if !strings.Contains(err.Error(), "network") && !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected network classification, got %v", err)
	}
}

func TestRequestPinMissingConfig(t *testing.T) {
	client := NewClient(Config{})

	_, err := client.RequestPin(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "base_url") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tipo") != "0" {
			t.Errorf("probe should use tipo=0, got %q", r.URL.Query().Get("tipo"))
		}
		w.Write([]byte("probe ok"))
	}))
	defer server.Close()

	client := testClient(server.URL, 5*time.Second)

	ok, msg := client.TestConnection(context.Background())
	if !ok {
		t.Fatalf("expected reachable, got %q", msg)
	}
	if !strings.Contains(msg, "reachable") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestTestConnectionUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := testClient(addr, 2*time.Second)

	ok, msg := client.TestConnection(context.Background())
	if ok {
		t.Fatal("expected unreachable")
	}
	if !strings.Contains(msg, "unreachable") {
		t.Errorf("unexpected message %q", msg)
	}
}
