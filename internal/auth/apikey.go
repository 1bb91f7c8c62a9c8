package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// APIKeyPair holds a freshly generated API key and its hash. Only the
// hash is ever persisted; the plaintext key is shown to the caller once.
type APIKeyPair struct {
	Key  string
	Hash string
}

// GenerateAPIKey creates a random 32-byte API key and its storage hash.
func GenerateAPIKey() (APIKeyPair, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return APIKeyPair{}, fmt.Errorf("failed to generate api key: %w", err)
	}
	key := hex.EncodeToString(raw)
	return APIKeyPair{Key: key, Hash: HashAPIKey(key)}, nil
}

// HashAPIKey returns the SHA-256 hex digest used to store and look up
// API keys.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// MatchesHash compares a plaintext key against a stored hash in constant
// time to avoid timing side-channels.
func MatchesHash(key, storedHash string) bool {
	computed := HashAPIKey(key)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
