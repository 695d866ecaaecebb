package metrics_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/artpar/sportsgate/adapters/metrics"
	"github.com/artpar/sportsgate/ports"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) []*dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()
		}
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewWithRegistry(reg)

	if c.RequestsTotal == nil || c.RequestDuration == nil || c.RequestsInFlight == nil {
		t.Error("request metrics not initialized")
	}
	if c.PipelineEvents == nil || c.UpstreamDuration == nil {
		t.Error("pipeline metrics not initialized")
	}
	if c.CatalogReloads == nil || c.CatalogReloadErrors == nil || c.CatalogLastReload == nil {
		t.Error("catalog metrics not initialized")
	}
}

func TestRecorder_SnapshotWithoutCollector(t *testing.T) {
	r := metrics.NewRecorder(nil)

	r.Inc(ports.CacheHits)
	r.Inc(ports.CacheHits)
	r.Inc(ports.QuotaBlocks)
	r.Inc(ports.Counter(99))
	r.ObserveUpstream(time.Second, true)

	got := r.Snapshot()
	want := ports.Counters{CacheHits: 2, QuotaBlocks: 1}
	if got != want {
		t.Errorf("Snapshot = %+v, want %+v", got, want)
	}
}

func TestRecorder_MirrorsToPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(metrics.NewWithRegistry(reg))

	r.Inc(ports.FallbackUses)
	r.Inc(ports.FallbackUses)
	r.Inc(ports.APIAuthFailures)

	series := gather(t, reg, "sportsgate_pipeline_events_total")
	if len(series) != 9 {
		t.Fatalf("series = %d, want 9 pre-created events", len(series))
	}
	for _, m := range series {
		switch labelValue(m, "event") {
		case "fallback_use":
			if v := m.GetCounter().GetValue(); v != 2 {
				t.Errorf("fallback_use = %v, want 2", v)
			}
		case "auth_failure":
			if v := m.GetCounter().GetValue(); v != 1 {
				t.Errorf("auth_failure = %v, want 1", v)
			}
		case "cache_hit":
			if v := m.GetCounter().GetValue(); v != 0 {
				t.Errorf("cache_hit = %v, want 0", v)
			}
		}
	}
}

func TestRecorder_ObserveUpstream(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(metrics.NewWithRegistry(reg))

	r.ObserveUpstream(100*time.Millisecond, true)
	r.ObserveUpstream(4*time.Second, false)

	series := gather(t, reg, "sportsgate_upstream_duration_seconds")
	if len(series) != 2 {
		t.Fatalf("series = %d, want 2", len(series))
	}
	for _, m := range series {
		if c := m.GetHistogram().GetSampleCount(); c != 1 {
			t.Errorf("%s samples = %d, want 1", labelValue(m, "outcome"), c)
		}
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	r := metrics.NewRecorder(metrics.NewWithRegistry(prometheus.NewRegistry()))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Inc(ports.CacheMisses)
			r.Inc(ports.UpstreamRequests)
		}()
	}
	wg.Wait()

	s := r.Snapshot()
	if s.CacheMisses != 100 || s.UpstreamRequests != 100 {
		t.Errorf("Snapshot = %+v", s)
	}
}

func TestCollector_CatalogReloaded(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewWithRegistry(reg)
	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	c.CatalogReloaded(nil, at)
	c.CatalogReloaded(errors.New("bad yaml"), at)

	if s := gather(t, reg, "sportsgate_catalog_reloads_total"); len(s) != 1 || s[0].GetCounter().GetValue() != 1 {
		t.Error("expected one successful reload")
	}
	if s := gather(t, reg, "sportsgate_catalog_reload_errors_total"); len(s) != 1 || s[0].GetCounter().GetValue() != 1 {
		t.Error("expected one failed reload")
	}
	if s := gather(t, reg, "sportsgate_catalog_last_reload_timestamp_seconds"); len(s) != 1 || s[0].GetGauge().GetValue() != float64(at.Unix()) {
		t.Error("last reload timestamp not set")
	}
}
