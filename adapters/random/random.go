// Package random provides Random implementations.
package random

import (
	"crypto/rand"
	"sync"

	"github.com/artpar/sportsgate/ports"
)

// Real uses crypto/rand for secure randomness.
type Real struct{}

// Bytes generates n cryptographically secure random bytes.
func (Real) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Fake provides deterministic randomness for testing.
// Preset values are returned in order; after that each call yields bytes
// derived from a counter, so successive calls never repeat.
type Fake struct {
	mu      sync.Mutex
	counter int
	values  [][]byte
	err     error
}

// NewFake creates a fake random source.
func NewFake() *Fake {
	return &Fake{}
}

// WithValues queues preset byte values to return.
func (f *Fake) WithValues(values ...[]byte) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = append(f.values, values...)
	return f
}

// WithError makes every call fail with err.
func (f *Fake) WithError(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
	return f
}

// Bytes returns the next preset value (padded or truncated to n) or
// counter-derived bytes.
func (f *Fake) Bytes(n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	b := make([]byte, n)
	if len(f.values) > 0 {
		copy(b, f.values[0])
		f.values = f.values[1:]
		return b, nil
	}

	f.counter++
	for i := range b {
		b[i] = byte((f.counter + i) % 256)
	}
	return b, nil
}

var (
	_ ports.Random = Real{}
	_ ports.Random = (*Fake)(nil)
)
