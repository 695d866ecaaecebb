package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/artpar/sportsgate/domain/key"
	"github.com/artpar/sportsgate/ports"
)

// AuthorizeAdmin reports whether token matches the configured admin token.
func (g *Gateway) AuthorizeAdmin(token string) bool {
	if token == "" || len(g.adminHash) == 0 {
		return false
	}
	return g.hasher.Compare(g.adminHash, token)
}

// SupportedPlans returns the configured plan ids in sorted order.
func (g *Gateway) SupportedPlans() []string {
	return g.plans.IDs()
}

// CreateKey issues a new key for ownerID on planID (default free).
func (g *Gateway) CreateKey(ctx context.Context, ownerID, planID string) (key.Record, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return key.Record{}, key.ErrOwnerRequired
	}
	planID = key.NormalizePlan(planID)
	if !g.plans.Has(planID) {
		return key.Record{}, fmt.Errorf("%w: %q", key.ErrInvalidPlan, planID)
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		b, err := g.random.Bytes(key.TokenBytes)
		if err != nil {
			return key.Record{}, fmt.Errorf("generate token: %w", err)
		}

		rec := key.New(key.TokenFromBytes(b), ownerID, planID, g.clock.Now())
		err = g.keys.Insert(ctx, rec)
		if errors.Is(err, key.ErrDuplicateKey) {
			g.logger.Warn().Int("attempt", attempt+1).Msg("generated api key collided, retrying")
			continue
		}
		if err != nil {
			return key.Record{}, fmt.Errorf("store key: %w", err)
		}

		g.logger.Info().
			Str("owner", ownerID).
			Str("plan", planID).
			Str("key", key.Mask(rec.Key)).
			Msg("api key created")
		return rec, nil
	}

	return key.Record{}, fmt.Errorf("generate token: %w after %d attempts", key.ErrDuplicateKey, maxTokenAttempts)
}

// RevokeKey revokes token. Revoking an already revoked key succeeds.
func (g *Gateway) RevokeKey(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if err := g.keys.Revoke(ctx, token); err != nil {
		return err
	}
	g.logger.Info().Str("key", key.Mask(token)).Msg("api key revoked")
	return nil
}

// MemoryStats is a subset of runtime.MemStats.
type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
	Goroutines int    `json:"goroutines"`
}

// HealthReport is the liveness summary of the process.
type HealthReport struct {
	Status     string
	Uptime     time.Duration
	Memory     MemoryStats
	Timestamp  time.Time
	DemoAPIKey string
}

// Health reports process liveness.
func (g *Gateway) Health() HealthReport {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	now := g.clock.Now()
	return HealthReport{
		Status: "ok",
		Uptime: now.Sub(g.startedAt),
		Memory: MemoryStats{
			Alloc:      ms.Alloc,
			TotalAlloc: ms.TotalAlloc,
			Sys:        ms.Sys,
			NumGC:      ms.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
		Timestamp:  now.UTC(),
		DemoAPIKey: g.demoKey,
	}
}

// MetricsReport is the pipeline tallies plus point-in-time gauges.
type MetricsReport struct {
	ports.Counters
	CacheEntries       int
	CacheTTL           time.Duration
	UpstreamConfigured bool
	ActiveAPIKeys      int
	UsageTrackedKeys   int
	DemoAPIKeyEnabled  bool
}

// Metrics returns a snapshot of the process-wide tallies.
func (g *Gateway) Metrics() MetricsReport {
	return MetricsReport{
		Counters:           g.metrics.Snapshot(),
		CacheEntries:       g.cache.Len(),
		CacheTTL:           g.cacheTTL,
		UpstreamConfigured: g.fetcher.Configured(),
		ActiveAPIKeys:      g.keys.CountActive(),
		UsageTrackedKeys:   g.usage.Len(),
		DemoAPIKeyEnabled:  g.demoKey != "",
	}
}
