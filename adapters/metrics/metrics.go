// Package metrics provides the pipeline tallies and Prometheus metrics for sportsgate.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/artpar/sportsgate/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sportsgate"

// Collector holds all Prometheus metrics for sportsgate.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Pipeline metrics
	PipelineEvents *prometheus.CounterVec

	// Upstream metrics
	UpstreamDuration *prometheus.HistogramVec

	// Catalog metrics
	CatalogReloads      prometheus.Counter
	CatalogReloadErrors prometheus.Counter
	CatalogLastReload   prometheus.Gauge
}

// New creates a collector registered with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector with a custom registry.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),

		PipelineEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_events_total",
				Help:      "Admission pipeline outcomes by event",
			},
			[]string{"event"},
		),

		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_duration_seconds",
				Help:      "Upstream fetch duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"outcome"},
		),

		CatalogReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_reloads_total",
				Help:      "Total number of successful fallback catalog reloads",
			},
		),
		CatalogReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_reload_errors_total",
				Help:      "Total number of failed fallback catalog reloads",
			},
		),
		CatalogLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_last_reload_timestamp_seconds",
				Help:      "Unix timestamp of the last successful catalog reload",
			},
		),
	}
}

// CatalogReloaded records the outcome of a catalog reload.
func (c *Collector) CatalogReloaded(err error, at time.Time) {
	if err != nil {
		c.CatalogReloadErrors.Inc()
		return
	}
	c.CatalogReloads.Inc()
	c.CatalogLastReload.Set(float64(at.Unix()))
}

// eventLabels are the PipelineEvents label values, indexed by ports.Counter.
var eventLabels = [...]string{
	ports.CacheHits:        "cache_hit",
	ports.CacheMisses:      "cache_miss",
	ports.UpstreamRequests: "upstream_request",
	ports.UpstreamFailures: "upstream_failure",
	ports.FallbackUses:     "fallback_use",
	ports.APIAuthFailures:  "auth_failure",
	ports.RateLimitBlocks:  "rate_limit_block",
	ports.QuotaBlocks:      "quota_block",
	ports.InternalErrors:   "internal_error",
}

// Recorder keeps the process-wide pipeline tallies. Counts live in atomics so
// Snapshot is exact; each increment is mirrored to Prometheus when a
// collector is attached.
type Recorder struct {
	counts    [len(eventLabels)]atomic.Int64
	collector *Collector
}

// NewRecorder creates a recorder. collector may be nil.
func NewRecorder(collector *Collector) *Recorder {
	r := &Recorder{collector: collector}
	if collector != nil {
		// Pre-create every series so scrapes show zeros before the first event.
		for _, label := range eventLabels {
			collector.PipelineEvents.WithLabelValues(label)
		}
	}
	return r
}

// Inc increments one tally.
func (r *Recorder) Inc(c ports.Counter) {
	if c < 0 || int(c) >= len(r.counts) {
		return
	}
	r.counts[c].Add(1)
	if r.collector != nil {
		r.collector.PipelineEvents.WithLabelValues(eventLabels[c]).Inc()
	}
}

// ObserveUpstream records the duration of one upstream fetch.
func (r *Recorder) ObserveUpstream(d time.Duration, ok bool) {
	if r.collector == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	r.collector.UpstreamDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Snapshot returns a copy of the tallies.
func (r *Recorder) Snapshot() ports.Counters {
	return ports.Counters{
		CacheHits:        r.counts[ports.CacheHits].Load(),
		CacheMisses:      r.counts[ports.CacheMisses].Load(),
		UpstreamRequests: r.counts[ports.UpstreamRequests].Load(),
		UpstreamFailures: r.counts[ports.UpstreamFailures].Load(),
		FallbackUses:     r.counts[ports.FallbackUses].Load(),
		APIAuthFailures:  r.counts[ports.APIAuthFailures].Load(),
		RateLimitBlocks:  r.counts[ports.RateLimitBlocks].Load(),
		QuotaBlocks:      r.counts[ports.QuotaBlocks].Load(),
		InternalErrors:   r.counts[ports.InternalErrors].Load(),
	}
}

// Ensure interface compliance.
var _ ports.Metrics = (*Recorder)(nil)
