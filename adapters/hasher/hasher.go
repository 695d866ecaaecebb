// Package hasher provides secret hashing for the admin token.
package hasher

import (
	"crypto/subtle"

	"github.com/artpar/sportsgate/ports"
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt uses bcrypt for hashing.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher with the given cost. Out-of-range costs
// fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Cost returns the effective work factor.
func (h *Bcrypt) Cost() int {
	return h.cost
}

// Hash generates a bcrypt hash from plaintext. bcrypt ignores input past
// 72 bytes, so longer secrets are rejected rather than silently truncated.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Compare checks if plaintext matches hash in constant time.
func (h *Bcrypt) Compare(hash []byte, plaintext string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}

// Plain compares secrets directly (NOT FOR PRODUCTION, tests only).
type Plain struct{}

// Hash returns the plaintext as bytes.
func (Plain) Hash(plaintext string) ([]byte, error) {
	return []byte(plaintext), nil
}

// Compare does a constant-time equality check.
func (Plain) Compare(hash []byte, plaintext string) bool {
	return subtle.ConstantTimeCompare(hash, []byte(plaintext)) == 1
}

var (
	_ ports.Hasher = (*Bcrypt)(nil)
	_ ports.Hasher = Plain{}
)
