package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("test-secret")

	token, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("subject = %q, want user-123", userID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager("secret-a")
	verifier := NewTokenManager("secret-b")

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	m := NewTokenManager("test-secret")
	m.now = func() time.Time { return issued }

	token, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Still valid just before the TTL elapses.
	m.now = func() time.Time { return issued.Add(TokenTTL - time.Minute) }
	if _, err := m.Verify(token); err != nil {
		t.Errorf("token should still be valid: %v", err)
	}

	// Rejected once the TTL has passed.
	m.now = func() time.Time { return issued.Add(TokenTTL + time.Minute) }
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("test-secret")

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", raw, err)
		}
	}
}
