package memory

import (
	"context"
	"sync"
	"time"

	"github.com/artpar/sportsgate/domain/matches"
	"github.com/artpar/sportsgate/ports"
)

type cacheEntry struct {
	payload   matches.Payload
	expiresAt time.Time
}

// MatchCache is an in-memory implementation of ports.MatchCache keyed by
// sport. Entries expire lazily: a read at or past the expiry purges them.
type MatchCache struct {
	clock   ports.Clock
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewMatchCache creates an empty cache.
func NewMatchCache(clock ports.Clock) *MatchCache {
	return &MatchCache{
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns a copy of the cached payload marked Cached=true.
func (c *MatchCache) Get(ctx context.Context, sport string) (matches.Payload, bool) {
	now := c.clock.Now()

	c.mu.RLock()
	e, ok := c.entries[sport]
	c.mu.RUnlock()
	if !ok {
		return matches.Payload{}, false
	}

	if !now.Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Put may have refreshed the entry.
		if cur, ok := c.entries[sport]; ok && !now.Before(cur.expiresAt) {
			delete(c.entries, sport)
		}
		c.mu.Unlock()
		return matches.Payload{}, false
	}

	p := e.payload.Clone()
	p.Cached = true
	return p, true
}

// Put stores p until now+ttl, overwriting any existing entry.
func (c *MatchCache) Put(ctx context.Context, sport string, p matches.Payload, ttl time.Duration) {
	stored := p.Clone()
	stored.Cached = false
	expiresAt := c.clock.Now().Add(ttl)

	c.mu.Lock()
	c.entries[sport] = cacheEntry{payload: stored, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included until
// they are next read.
func (c *MatchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure interface compliance.
var _ ports.MatchCache = (*MatchCache)(nil)
