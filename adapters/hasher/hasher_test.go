package hasher_test

import (
	"strings"
	"testing"

	"github.com/artpar/sportsgate/adapters/hasher"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcrypt_Cost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"min", bcrypt.MinCost, bcrypt.MinCost},
		{"valid", 10, 10},
		{"too low", 1, bcrypt.DefaultCost},
		{"too high", 100, bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasher.NewBcrypt(tt.cost).Cost(); got != tt.want {
				t.Errorf("Cost() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBcrypt_HashAndCompare(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("dev-admin-token")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if string(hash) == "dev-admin-token" {
		t.Error("hash should not equal plaintext")
	}

	if !h.Compare(hash, "dev-admin-token") {
		t.Error("Compare should match the original secret")
	}
	if h.Compare(hash, "dev-admin-tokem") {
		t.Error("Compare should reject a different secret")
	}
	if h.Compare(hash, "") {
		t.Error("Compare should reject an empty secret")
	}
}

func TestBcrypt_RejectsOverlongSecret(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	if _, err := h.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("expected error for secret longer than 72 bytes")
	}
}

func TestPlain(t *testing.T) {
	h := hasher.Plain{}

	hash, _ := h.Hash("secret")
	if !h.Compare(hash, "secret") {
		t.Error("Compare should match")
	}
	if h.Compare(hash, "secreT") {
		t.Error("Compare should reject")
	}
}
