package util

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
)

// Decode errors returned to API clients.
var (
	ErrInvalidBase64 = errors.New("invalid base64")
	ErrInvalidHex    = errors.New("invalid hexadecimal")
)

// EncodeBase64 encodes text as standard base64.
func EncodeBase64(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// DecodeBase64 decodes standard base64 back to text.
func DecodeBase64(encoded string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidBase64
	}
	return string(decoded), nil
}

// EncodeHex encodes text as lowercase hexadecimal.
func EncodeHex(text string) string {
	return hex.EncodeToString([]byte(text))
}

// DecodeHex decodes hexadecimal back to text.
func DecodeHex(encoded string) (string, error) {
	decoded, err := hex.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidHex
	}
	return string(decoded), nil
}
