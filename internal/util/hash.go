// Package util implements the stateless utility operations exposed by
// the API: digests, codecs, Brazilian document validation and
// timestamp conversion.
package util

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// DefaultHashAlgorithm is used when the caller does not pick one.
const DefaultHashAlgorithm = "sha256"

// supportedAlgorithms maps algorithm names to constructors, in the order
// they are advertised in error messages.
var supportedAlgorithms = []string{"md5", "sha1", "sha256", "sha512"}

func newDigest(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "md5":
		return md5.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("invalid algorithm, use one of: %s", strings.Join(supportedAlgorithms, ", "))
	}
}

// HashText returns the hex digest of text under the given algorithm.
// Algorithm names are case-insensitive.
func HashText(text, algorithm string) (string, error) {
	if algorithm == "" {
		algorithm = DefaultHashAlgorithm
	}

	h, err := newDigest(strings.ToLower(algorithm))
	if err != nil {
		return "", err
	}

	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CompareHash reports whether hashing text under the algorithm yields
// the expected digest. The comparison is constant-time.
func CompareHash(text, expected, algorithm string) (bool, error) {
	digest, err := HashText(text, algorithm)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(expected))) == 1, nil
}
