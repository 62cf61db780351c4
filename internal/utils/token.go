package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// ShareTokenBytes is the entropy of a share token. Hex-encoded it yields a
// fixed 64 character URL-safe string.
const ShareTokenBytes = 32

// GenerateShareToken returns a cryptographically random share token.
func GenerateShareToken() (string, error) {
	buf := make([]byte, ShareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
