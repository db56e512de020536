// Package auth implements password hashing and token issuing for the
// session lifecycle.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"fmt"
)

// saltSize is the length in bytes of the per-user HMAC key.
const saltSize = 64

// Hasher derives and verifies salted password digests. Each password is
// hashed with HMAC-SHA512 keyed by a random per-user salt, so equal
// passwords never share a digest.
type Hasher struct{}

// NewHasher returns a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash returns the digest and freshly generated salt for the password.
func (*Hasher) Hash(password string) (hash, salt []byte, err error) {
	salt = make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate password salt: %w", err)
	}

	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil), salt, nil
}

// Verify reports whether the password matches the stored hash and salt.
// Comparison is constant time.
func (*Hasher) Verify(password string, hash, salt []byte) bool {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return hmac.Equal(mac.Sum(nil), hash)
}
