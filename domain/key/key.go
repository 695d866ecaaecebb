// Package key provides API key value types and pure validation functions.
// This package has NO dependencies on I/O or external packages.
package key

import (
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// Prefix is prepended to every generated token.
const Prefix = "rz_"

// TokenBytes is the amount of randomness in a generated token.
const TokenBytes = 16

// Errors returned by key registries.
var (
	ErrKeyNotFound   = errors.New("api key not found")
	ErrInvalidPlan   = errors.New("unsupported plan")
	ErrOwnerRequired = errors.New("owner id required")
	ErrDuplicateKey  = errors.New("api key already issued")
)

// Record represents an issued API key (value type).
// Tokens are bearer credentials: never log them unmasked.
type Record struct {
	Key       string
	OwnerID   string
	Plan      string
	CreatedAt time.Time
	Revoked   bool
}

// ValidationResult represents the outcome of key validation (value type).
type ValidationResult struct {
	Valid  bool
	Record Record // Populated only if Valid=true
	Reason string // Populated only if Valid=false
}

// Reasons for validation failure.
const (
	ReasonValid    = ""
	ReasonMissing  = "missing_api_key"
	ReasonNotFound = "invalid_api_key"
	ReasonRevoked  = "key_revoked"
)

// TokenFromBytes builds a token from raw random bytes.
// This is a PURE function.
func TokenFromBytes(b []byte) string {
	return Prefix + hex.EncodeToString(b)
}

// New returns an unrevoked record for the given token.
func New(token, ownerID, plan string, now time.Time) Record {
	return Record{
		Key:       token,
		OwnerID:   ownerID,
		Plan:      plan,
		CreatedAt: now.UTC(),
	}
}

// WithRevoked returns a copy of the record marked revoked.
func (r Record) WithRevoked() Record {
	r.Revoked = true
	return r
}

// Mask hides most of a token for logging: "rz_1a2b…9f".
func Mask(token string) string {
	if len(token) <= len(Prefix)+6 {
		return strings.Repeat("*", len(token))
	}
	return token[:len(Prefix)+4] + "…" + token[len(token)-2:]
}
