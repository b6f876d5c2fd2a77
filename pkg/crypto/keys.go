// Package crypto provides ed25519 signing and authentication-key
// derivation for Meridian accounts.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// SeedSize is the length of an ed25519 private key seed in bytes.
const SeedSize = ed25519.SeedSize

// Signer signs messages with an account's private key.
type Signer interface {
	// Sign produces an ed25519 signature over a message. Signing is
	// deterministic: the same key and message always yield the same bytes.
	Sign(message []byte) ([]byte, error)
	// PublicKeyBytes returns the 32-byte public key.
	PublicKeyBytes() []byte
}

// PrivateKey wraps an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenerateKey creates a new random ed25519 private key.
func GenerateKey() (*PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromSeed creates a PrivateKey from a 32-byte seed.
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign produces an ed25519 signature over the message.
func (pk *PrivateKey) Sign(message []byte) ([]byte, error) {
	if pk.key == nil {
		return nil, fmt.Errorf("private key not initialized")
	}
	return ed25519.Sign(pk.key, message), nil
}

// PublicKeyBytes returns the 32-byte public key.
func (pk *PrivateKey) PublicKeyBytes() []byte {
	pub := pk.key.Public().(ed25519.PublicKey)
	out := make([]byte, len(pub))
	copy(out, pub)
	return out
}

// Seed returns the 32-byte private key seed.
func (pk *PrivateKey) Seed() []byte {
	return pk.key.Seed()
}

// Verify checks an ed25519 signature against a message and a 32-byte
// public key. Returns false on any error.
func Verify(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}
