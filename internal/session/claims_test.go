package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-key"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return token
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub":  "test_teacher",
		"role": "teacher",
		"exp":  exp.Unix(),
	})

	claims, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "test_teacher" {
		t.Errorf("expected subject test_teacher, got %q", claims.Subject)
	}
	if claims.Role != RoleTeacher {
		t.Errorf("expected role teacher, got %q", claims.Role)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %s, got %s", exp, claims.ExpiresAt)
	}
	if claims.Expired(time.Now()) {
		t.Error("expected token not to be expired yet")
	}
	if !claims.Expired(exp.Add(time.Minute)) {
		t.Error("expected token to be expired after exp")
	}
}

func TestParseClaims_NoExpiry(t *testing.T) {
	claims, err := ParseClaims(signedToken(t, jwt.MapClaims{"sub": "x"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Expired(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Error("expected token without exp never to expire")
	}
}

func TestParseClaims_OpaqueToken(t *testing.T) {
	if _, err := ParseClaims("opaque-token"); err == nil {
		t.Error("expected error for opaque token")
	}
}
