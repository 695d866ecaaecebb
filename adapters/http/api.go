package http

import (
	"math"
	"net/http"

	"github.com/artpar/sportsgate/adapters/http/respond"
	"github.com/artpar/sportsgate/app"
	"github.com/artpar/sportsgate/domain/matches"
	"github.com/rs/zerolog"
)

// APIHandler serves the client-facing /api endpoints.
type APIHandler struct {
	gw     *app.Gateway
	logger zerolog.Logger
}

// NewAPIHandler creates the /api handlers.
func NewAPIHandler(gw *app.Gateway, logger zerolog.Logger) *APIHandler {
	return &APIHandler{gw: gw, logger: logger}
}

// MatchesResponse is the fixtures payload plus the caller's plan.
type MatchesResponse struct {
	matches.Payload
	Plan string `json:"plan"`
}

// Matches serves fixtures for a sport.
//
//	@Summary		List fixtures
//	@Description	Authenticates the key, enforces quota and rate limit, then serves cached, upstream or fallback fixtures
//	@Tags			Matches
//	@Produce		json
//	@Param			X-API-Key	header		string			true	"API Key"
//	@Param			sport		query		string			false	"Sport (default football)"
//	@Success		200			{object}	MatchesResponse	"Fixtures"
//	@Failure		401			{object}	map[string]any	"API key required"
//	@Failure		403			{object}	map[string]any	"Invalid API key"
//	@Failure		429			{object}	map[string]any	"Quota or rate limit exceeded"
//	@Failure		500			{object}	map[string]any	"Failed to build match payload"
//	@Security		ApiKeyAuth
//	@Router			/api/matches [get]
func (h *APIHandler) Matches(w http.ResponseWriter, r *http.Request) {
	result := h.gw.Matches(r.Context(), extractAPIKey(r), r.URL.Query().Get("sport"))
	if result.Error != nil {
		respond.Error(w, *result.Error)
		return
	}

	respond.JSON(w, http.StatusOK, MatchesResponse{Payload: result.Payload, Plan: result.Plan})
}

// UsageResponse is the caller's current-month usage.
type UsageResponse struct {
	APIKey         string  `json:"apiKey"`
	UserID         string  `json:"userId"`
	Plan           string  `json:"plan"`
	Month          string  `json:"month"`
	Requests       int64   `json:"requests"`
	Errors         int64   `json:"errors"`
	CacheHits      int64   `json:"cacheHits"`
	CacheMisses    int64   `json:"cacheMisses"`
	RateLimited    int64   `json:"rateLimited"`
	MonthlyQuota   int64   `json:"monthlyQuota"`
	RemainingQuota int64   `json:"remainingQuota"`
	LastRequestAt  *string `json:"lastRequestAt"`
}

// Usage reports usage for the current month.
//
//	@Summary		Current usage
//	@Description	Current-month usage of the calling key. Not counted and not rate limited.
//	@Tags			Matches
//	@Produce		json
//	@Param			X-API-Key	header		string			true	"API Key"
//	@Success		200			{object}	UsageResponse	"Usage"
//	@Failure		401			{object}	map[string]any	"API key required"
//	@Failure		403			{object}	map[string]any	"Invalid API key"
//	@Security		ApiKeyAuth
//	@Router			/api/usage [get]
func (h *APIHandler) Usage(w http.ResponseWriter, r *http.Request) {
	report, errResp := h.gw.Usage(r.Context(), extractAPIKey(r))
	if errResp != nil {
		respond.Error(w, *errResp)
		return
	}

	u := report.Usage
	resp := UsageResponse{
		APIKey:         report.APIKey,
		UserID:         report.OwnerID,
		Plan:           report.Plan,
		Month:          u.Month,
		Requests:       u.Requests,
		Errors:         u.Errors,
		CacheHits:      u.CacheHits,
		CacheMisses:    u.CacheMisses,
		RateLimited:    u.RateLimited,
		MonthlyQuota:   report.MonthlyQuota,
		RemainingQuota: report.RemainingQuota,
	}
	if u.LastRequestAt != nil {
		ts := respond.Time(*u.LastRequestAt)
		resp.LastRequestAt = &ts
	}

	respond.JSON(w, http.StatusOK, resp)
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status        string          `json:"status"`
	UptimeSeconds float64         `json:"uptimeSeconds"`
	Memory        app.MemoryStats `json:"memory"`
	Timestamp     string          `json:"timestamp"`
	DemoAPIKey    string          `json:"demoApiKey"`
}

// Health returns process liveness.
//
//	@Summary		Liveness check
//	@Description	Returns OK with uptime and memory figures
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status: ok"
//	@Router			/api/health [get]
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	report := h.gw.Health()

	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:        report.Status,
		UptimeSeconds: math.Round(report.Uptime.Seconds()*100) / 100,
		Memory:        report.Memory,
		Timestamp:     respond.Time(report.Timestamp),
		DemoAPIKey:    report.DemoAPIKey,
	})
}

// MetricsResponse is the JSON view of the pipeline tallies.
type MetricsResponse struct {
	CacheHits          int64 `json:"cacheHits"`
	CacheMisses        int64 `json:"cacheMisses"`
	UpstreamRequests   int64 `json:"upstreamRequests"`
	UpstreamFailures   int64 `json:"upstreamFailures"`
	FallbackUses       int64 `json:"fallbackUses"`
	APIAuthFailures    int64 `json:"apiAuthFailures"`
	RateLimitBlocks    int64 `json:"rateLimitBlocks"`
	QuotaBlocks        int64 `json:"quotaBlocks"`
	InternalErrors     int64 `json:"internalErrors"`
	CacheEntries       int   `json:"cacheEntries"`
	CacheTTLMs         int64 `json:"cacheTtlMs"`
	UpstreamConfigured bool  `json:"upstreamConfigured"`
	ActiveAPIKeys      int   `json:"activeApiKeys"`
	UsageTrackedKeys   int   `json:"usageTrackedKeys"`
	DemoAPIKeyEnabled  bool  `json:"demoApiKeyEnabled"`
}

// Metrics returns the pipeline tallies as JSON.
//
//	@Summary		Gateway metrics
//	@Description	Process-wide pipeline counters and point-in-time gauges
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	MetricsResponse	"Metrics"
//	@Router			/api/metrics [get]
func (h *APIHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	m := h.gw.Metrics()

	respond.JSON(w, http.StatusOK, MetricsResponse{
		CacheHits:          m.CacheHits,
		CacheMisses:        m.CacheMisses,
		UpstreamRequests:   m.UpstreamRequests,
		UpstreamFailures:   m.UpstreamFailures,
		FallbackUses:       m.FallbackUses,
		APIAuthFailures:    m.APIAuthFailures,
		RateLimitBlocks:    m.RateLimitBlocks,
		QuotaBlocks:        m.QuotaBlocks,
		InternalErrors:     m.InternalErrors,
		CacheEntries:       m.CacheEntries,
		CacheTTLMs:         m.CacheTTL.Milliseconds(),
		UpstreamConfigured: m.UpstreamConfigured,
		ActiveAPIKeys:      m.ActiveAPIKeys,
		UsageTrackedKeys:   m.UsageTrackedKeys,
		DemoAPIKeyEnabled:  m.DemoAPIKeyEnabled,
	})
}
