// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateAddress derives the opaque external identity handed to a new
// account. The 0x-prefixed 40-hex-char shape keeps it interchangeable with
// the wallet addresses legacy participants registered with.
func GenerateAddress() (string, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return "", fmt.Errorf("failed to read random seed: %w", err)
	}
	return "0x" + HashString(string(seed))[:40], nil
}

func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}
