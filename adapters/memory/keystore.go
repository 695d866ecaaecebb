// Package memory provides the in-process state stores of the gateway.
// Nothing here survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/artpar/sportsgate/domain/key"
	"github.com/artpar/sportsgate/ports"
)

// KeyStore is an in-memory implementation of ports.KeyStore, indexed by token.
type KeyStore struct {
	mu     sync.RWMutex
	keys   map[string]key.Record
	active int
}

// NewKeyStore creates a new in-memory key store.
func NewKeyStore() *KeyStore {
	return &KeyStore{
		keys: make(map[string]key.Record),
	}
}

// Lookup returns the record for token.
func (s *KeyStore) Lookup(ctx context.Context, token string) (key.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.keys[token]
	return rec, ok
}

// Insert stores a new record. Tokens are never reassigned.
func (s *KeyStore) Insert(ctx context.Context, rec key.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[rec.Key]; exists {
		return key.ErrDuplicateKey
	}
	s.keys[rec.Key] = rec
	if !rec.Revoked {
		s.active++
	}
	return nil
}

// Seed installs a pre-provisioned record, replacing any existing one.
func (s *KeyStore) Seed(rec key.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.keys[rec.Key]; ok && !old.Revoked {
		s.active--
	}
	s.keys[rec.Key] = rec
	if !rec.Revoked {
		s.active++
	}
}

// Revoke marks a key as revoked. Revoking twice succeeds.
func (s *KeyStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.keys[token]
	if !ok {
		return key.ErrKeyNotFound
	}
	if !rec.Revoked {
		s.keys[token] = rec.WithRevoked()
		s.active--
	}
	return nil
}

// CountActive returns the number of unrevoked keys.
func (s *KeyStore) CountActive() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Len returns the number of keys ever issued (for testing).
func (s *KeyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Ensure interface compliance.
var _ ports.KeyStore = (*KeyStore)(nil)
