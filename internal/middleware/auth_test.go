package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gamepin/gamepin-api/internal/pkg/jwt"
)

func TestAuthMiddlewareAllowsValidAccessToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	userID := uuid.New()
	token, err := jwtSvc.GenerateAccessToken(userID, "customer")
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}

	var gotUserID uuid.UUID
	protected := Auth(jwtSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUserID != userID {
		t.Errorf("expected user id %s in context, got %s", userID, gotUserID)
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)

	protected := Auth(jwtSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", -time.Minute)
	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "customer")
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}

	protected := Auth(jwtSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)

	chain := Auth(jwtSvc)(RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	request := func(role string) *httptest.ResponseRecorder {
		t.Helper()
		token, err := jwtSvc.GenerateAccessToken(uuid.New(), role)
		if err != nil {
			t.Fatalf("token gen failed: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		chain.ServeHTTP(w, req)
		return w
	}

	if w := request("admin"); w.Code != http.StatusOK {
		t.Errorf("admin should pass, got %d", w.Code)
	}
	if w := request("customer"); w.Code != http.StatusForbidden {
		t.Errorf("customer should be forbidden, got %d", w.Code)
	}
}
