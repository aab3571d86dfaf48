package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestAccessTokenRoundtrip(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute, 30*24*time.Hour)

	token, err := manager.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	userId, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if userId != "user-1" {
		t.Fatalf("subject = %q, want %q", userId, "user-1")
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", 15*time.Minute, time.Hour)
	verifier := NewJWTManager("secret-b", 15*time.Minute, time.Hour)

	token, err := issuer.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := verifier.ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccessToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := manager.ValidateAccessToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute, time.Hour)

	if _, err := manager.ValidateAccessToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestGenerateRefreshToken_UniqueWithFutureExpiry(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute, time.Hour)

	a, expiresAt, err := manager.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	b, _, err := manager.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if a == b {
		t.Fatal("two refresh tokens are identical")
	}
	if len(a) < 40 {
		t.Fatalf("refresh token suspiciously short: %d chars", len(a))
	}

	until := time.Until(expiresAt)
	if until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expiry %v from now, want about an hour", until)
	}
}
