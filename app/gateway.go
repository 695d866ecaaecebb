// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/artpar/sportsgate/domain/gateway"
	"github.com/artpar/sportsgate/domain/key"
	"github.com/artpar/sportsgate/domain/matches"
	"github.com/artpar/sportsgate/domain/plan"
	"github.com/artpar/sportsgate/domain/usage"
	"github.com/artpar/sportsgate/ports"
	"github.com/rs/zerolog"
)

// maxTokenAttempts bounds regeneration after a token collision.
const maxTokenAttempts = 5

// Deps contains dependencies for Gateway.
type Deps struct {
	Keys      ports.KeyStore
	Usage     ports.UsageLedger
	RateLimit ports.RateLimiter
	Cache     ports.MatchCache
	Fetcher   ports.Fetcher
	Catalog   ports.Catalog
	Metrics   ports.Metrics
	Clock     ports.Clock
	Random    ports.Random
	Hasher    ports.Hasher
	Logger    zerolog.Logger
}

// Config contains configuration for Gateway.
type Config struct {
	Plans          plan.Table
	CacheTTL       time.Duration
	AdminTokenHash []byte // produced by Deps.Hasher
	DemoAPIKey     string // empty when disabled
}

// Gateway runs the admission pipeline and the admin operations.
// All mutable state lives in the stores it is built with.
type Gateway struct {
	keys      ports.KeyStore
	usage     ports.UsageLedger
	rateLimit ports.RateLimiter
	cache     ports.MatchCache
	fetcher   ports.Fetcher
	catalog   ports.Catalog
	metrics   ports.Metrics
	clock     ports.Clock
	random    ports.Random
	hasher    ports.Hasher
	logger    zerolog.Logger

	plans     plan.Table
	cacheTTL  time.Duration
	adminHash []byte
	demoKey   string
	startedAt time.Time
}

// New creates a gateway.
func New(deps Deps, cfg Config) *Gateway {
	plans := cfg.Plans
	if len(plans) == 0 {
		plans = plan.DefaultTable()
	}
	return &Gateway{
		keys:      deps.Keys,
		usage:     deps.Usage,
		rateLimit: deps.RateLimit,
		cache:     deps.Cache,
		fetcher:   deps.Fetcher,
		catalog:   deps.Catalog,
		metrics:   deps.Metrics,
		clock:     deps.Clock,
		random:    deps.Random,
		hasher:    deps.Hasher,
		logger:    deps.Logger,
		plans:     plans,
		cacheTTL:  cfg.CacheTTL,
		adminHash: cfg.AdminTokenHash,
		demoKey:   cfg.DemoAPIKey,
		startedAt: deps.Clock.Now(),
	}
}

// MatchesResult represents the outcome of a fixtures request.
type MatchesResult struct {
	Payload matches.Payload
	Plan    string
	Error   *gateway.ErrorResponse
}

// Matches runs the admission pipeline for one fixtures request:
// authenticate, monthly quota, rate limit, cache, then upstream or fallback.
// Each step short-circuits.
func (g *Gateway) Matches(ctx context.Context, apiKey, sport string) MatchesResult {
	// 1. Authenticate
	rec, errResp := g.authenticate(ctx, apiKey)
	if errResp != nil {
		return MatchesResult{Error: errResp}
	}
	limits := g.plans.Lookup(rec.Plan)
	log := g.logger.With().Str("key", key.Mask(rec.Key)).Str("plan", rec.Plan).Logger()

	// 2. Monthly quota. Reserve counts the request atomically; a refused
	// reservation leaves the ledger untouched.
	current, admitted := g.usage.Reserve(ctx, rec.Key, limits.MonthlyQuota)
	if !admitted {
		g.metrics.Inc(ports.QuotaBlocks)
		log.Debug().Int64("requests", current.Requests).Int64("quota", limits.MonthlyQuota).Msg("monthly quota exceeded")
		resp := gateway.QuotaExceeded(current.Month, current.Requests, limits.MonthlyQuota, rec.Plan)
		return MatchesResult{Error: &resp}
	}

	// 3. Rate limit. A blocked request gives its reservation back and
	// counts as rateLimited.
	decision := g.rateLimit.Acquire(ctx, rec.Key, limits.RateLimitPerMinute)
	if !decision.Allowed {
		g.metrics.Inc(ports.RateLimitBlocks)
		g.usage.Record(ctx, rec.Key, usage.DeltaRateLimited)
		log.Debug().Dur("retry_after", decision.RetryAfter).Msg("rate limit exceeded")
		resp := gateway.RateLimited(limits.RateLimitPerMinute, decision.RetryAfter)
		return MatchesResult{Error: &resp}
	}

	sport = matches.NormalizeSport(sport)

	// 4. Cache
	if cached, ok := g.cache.Get(ctx, sport); ok {
		g.metrics.Inc(ports.CacheHits)
		g.usage.Record(ctx, rec.Key, usage.DeltaCacheHit)
		return MatchesResult{Payload: cached, Plan: rec.Plan}
	}

	// 5. Refill. Get and Put are not atomic: concurrent misses for the same
	// sport may both fetch and both store, last write wins.
	g.metrics.Inc(ports.CacheMisses)
	payload, err := g.refill(ctx, sport)
	if err != nil {
		g.metrics.Inc(ports.InternalErrors)
		g.usage.Record(ctx, rec.Key, usage.DeltaInternal)
		log.Error().Err(err).Str("sport", sport).Msg("failed to build match payload")
		resp := gateway.Internal(err.Error())
		return MatchesResult{Error: &resp}
	}

	g.cache.Put(ctx, sport, payload, g.cacheTTL)
	g.usage.Record(ctx, rec.Key, usage.DeltaCacheMiss)

	payload.Cached = false
	return MatchesResult{Payload: payload, Plan: rec.Plan}
}

// refill builds a fresh payload from upstream or the fallback catalog.
// A panic while building is returned as an error.
func (g *Gateway) refill(ctx context.Context, sport string) (p matches.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = matches.Payload{}
			err = fmt.Errorf("%v", r)
		}
	}()

	if !g.fetcher.Configured() {
		return matches.Fallback(sport, g.catalog.Fixtures(sport), ""), nil
	}

	g.metrics.Inc(ports.UpstreamRequests)

	// The fetch outlives a departed caller so a client disconnect is never
	// cached as an upstream failure.
	start := time.Now()
	fetched, err := g.fetcher.Fetch(context.WithoutCancel(ctx), sport)
	g.metrics.ObserveUpstream(time.Since(start), err == nil)

	switch {
	case err == nil:
		fetched.Sport = sport
		fetched.Source = matches.SourceUpstreamProxy
		fetched.FallbackReason = ""
		return fetched.Clone(), nil
	case errors.Is(err, ports.ErrUpstreamNotConfigured):
		return matches.Fallback(sport, g.catalog.Fixtures(sport), ""), nil
	default:
		g.metrics.Inc(ports.UpstreamFailures)
		g.metrics.Inc(ports.FallbackUses)
		g.logger.Warn().Err(err).Str("sport", sport).Msg("upstream failed, serving fallback catalog")
		return matches.Fallback(sport, g.catalog.Fixtures(sport), err.Error()), nil
	}
}

// authenticate resolves a token, exactly as presented, to an active key record.
func (g *Gateway) authenticate(ctx context.Context, token string) (key.Record, *gateway.ErrorResponse) {
	rec, found := key.Record{}, false
	if token != "" {
		rec, found = g.keys.Lookup(ctx, token)
	}

	result := key.Validate(token, rec, found)
	if result.Valid {
		return result.Record, nil
	}

	g.metrics.Inc(ports.APIAuthFailures)
	g.logger.Debug().Str("reason", result.Reason).Str("key", key.Mask(token)).Msg("api key rejected")
	if result.Reason == key.ReasonMissing {
		return key.Record{}, &gateway.ErrMissingKey
	}
	return key.Record{}, &gateway.ErrInvalidKey
}

// UsageReport is the current-month usage of one key.
type UsageReport struct {
	APIKey         string
	OwnerID        string
	Plan           string
	Usage          usage.Record
	MonthlyQuota   int64
	RemainingQuota int64
}

// Usage reports the caller's current-month usage. It does not count as a
// request and is not rate limited.
func (g *Gateway) Usage(ctx context.Context, apiKey string) (UsageReport, *gateway.ErrorResponse) {
	rec, errResp := g.authenticate(ctx, apiKey)
	if errResp != nil {
		return UsageReport{}, errResp
	}

	limits := g.plans.Lookup(rec.Plan)
	u := g.usage.Get(ctx, rec.Key)

	return UsageReport{
		APIKey:         rec.Key,
		OwnerID:        rec.OwnerID,
		Plan:           rec.Plan,
		Usage:          u,
		MonthlyQuota:   limits.MonthlyQuota,
		RemainingQuota: plan.Remaining(limits, u.Requests),
	}, nil
}
