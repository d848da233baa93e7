package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomSuffix generates n random hex characters, used to de-collide usernames
// derived from a federated display name.
func RandomSuffix(n int) (string, error) {
	bytes := make([]byte, (n+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes)[:n], nil
}

// GeneratePassword generates an unguessable password for accounts created
// through the federated login path. The user never sees or types it.
func GeneratePassword() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
