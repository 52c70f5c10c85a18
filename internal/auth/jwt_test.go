package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "a@example.com", "manager")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "a@example.com" || claims.Role != "manager" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "a@example.com", "employee")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyRefreshToken(token); err == nil {
		t.Fatal("an access token must not verify as a refresh token")
	}
}

func TestRefreshTokenCarriesJTI(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, 24*time.Hour)

	raw, jti, expiresAt, err := m.GenerateRefreshToken("user-1", "a@example.com", "employee")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if jti == "" {
		t.Fatal("expected a jti")
	}

	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiry in the past: %v", expiresAt)
	}

	claims, err := m.VerifyRefreshToken(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.JTI != jti {
		t.Fatalf("jti mismatch: got %q want %q", claims.JTI, jti)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager("secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "a@example.com", "employee")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyAccessToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, 24*time.Hour)
	other := NewManager("different", 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "a@example.com", "employee")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}
}

func TestHashRefreshTokenIsDeterministic(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, 24*time.Hour)

	a := m.HashRefreshToken("raw-token")
	b := m.HashRefreshToken("raw-token")
	c := m.HashRefreshToken("other-token")

	if a != b {
		t.Fatal("same input must hash to the same value")
	}

	if a == c {
		t.Fatal("different inputs must not collide trivially")
	}
}
