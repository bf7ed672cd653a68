package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenTTL is how long a session token remains valid after issuance.
// There is no refresh mechanism; clients log in again.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers every verification failure: malformed token,
// bad signature, expiry. Callers respond with a single 401 message.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager issues and verifies HS256 session tokens signed with a
// shared secret.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager creates a TokenManager for the given shared secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs a session token carrying the user ID as subject.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := m.now()

	tok, err := jwt.NewBuilder().
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(TokenTTL)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// Verify validates signature and expiry and returns the user ID.
func (m *TokenManager) Verify(raw string) (string, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	sub := tok.Subject()
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
