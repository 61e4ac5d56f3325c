package auth_test

import (
	"testing"
	"time"

	"github.com/glambook/glambook-api/pkg/auth"
)

const secret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := auth.NewAccessToken(42, "ana@test.local", "specialist", secret, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	claims, err := auth.Parse(tok, secret)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Sub != 42 || claims.Email != "ana@test.local" || claims.Role != "specialist" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := auth.NewAccessToken(1, "a@b.c", "customer", secret, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := auth.Parse(tok, "other-secret"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	tok, err := auth.NewAccessToken(1, "a@b.c", "customer", secret, -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := auth.Parse(tok, secret); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestRefreshTokenCarriesRefreshRole(t *testing.T) {
	tok, err := auth.NewRefreshToken(5, "a@b.c", secret, time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	claims, err := auth.Parse(tok, secret)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Role != "refresh" {
		t.Errorf("role = %q, want refresh", claims.Role)
	}
}
