package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Random secret sizes, in bytes of entropy.
const (
	TokenSize128 = 16 // encodes to 22 characters
	TokenSize256 = 32 // encodes to 43 characters, enough for an HS256 key
)

// GenerateToken returns size random bytes as unpadded base64url. The stub uses
// it for a per-process signing secret when none is configured.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	secret := make([]byte, size)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(secret), nil
}
