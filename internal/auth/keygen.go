package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// API keys are 24 random bytes, hex encoded to 48 lowercase characters.
// They are stored as-is and compared by exact lookup.
const keyRandomBytes = 24

// KeyLength is the length of an encoded API key.
const KeyLength = keyRandomBytes * 2

var keyFormatRegex = regexp.MustCompile(`^[a-f0-9]{48}$`)

// GenerateAPIKey creates a new opaque API key.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, keyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidKeyFormat reports whether a presented key has the expected shape.
// Used to reject obviously malformed keys before touching the store.
func ValidKeyFormat(key string) bool {
	return keyFormatRegex.MatchString(key)
}
