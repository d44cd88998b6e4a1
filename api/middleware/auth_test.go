package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/EmilyGongVL/ecommerce-v1/pkg/auth"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/config"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
)

type stubVerifier struct {
	err      error
	issuedAt time.Time
}

func (s *stubVerifier) VerifyUser(_ context.Context, _ uuid.UUID, issuedAt time.Time) error {
	s.issuedAt = issuedAt
	return s.err
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "vivamarket-test", ExpirationMinutes: 60}
}

func mintToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID, Role: role})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	cfg := authTestConfig()
	userID := uuid.New()
	token := mintToken(t, cfg, userID, enums.UserRoleAdmin)

	var gotUserID, gotRole string
	handler := Auth(cfg, &stubVerifier{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/orders", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotUserID != userID.String() {
		t.Fatalf("user id = %q", gotUserID)
	}
	if gotRole != string(enums.UserRoleAdmin) {
		t.Fatalf("role = %q", gotRole)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(authTestConfig(), nil, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/orders", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(authTestConfig(), nil, nil)(okHandler())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/orders", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthConsultsVerifier(t *testing.T) {
	cfg := authTestConfig()
	token := mintToken(t, cfg, uuid.New(), enums.UserRoleUser)

	verifier := &stubVerifier{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "password recently changed, please log in again")}
	handler := Auth(cfg, verifier, nil)(okHandler())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/orders", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if verifier.issuedAt.IsZero() {
		t.Fatal("verifier should receive the token issue time")
	}
}
