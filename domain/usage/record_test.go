package usage_test

import (
	"testing"
	"time"

	"github.com/artpar/sportsgate/domain/usage"
)

var baseTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestMonthOf(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"mid month", baseTime, "2024-01"},
		{"last instant of month", time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), "2024-01"},
		{"first instant of month", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "2024-02"},
		{
			"local time converted to UTC",
			time.Date(2024, 3, 1, 2, 0, 0, 0, time.FixedZone("CET", 3600*3)),
			"2024-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usage.MonthOf(tt.t); got != tt.want {
				t.Errorf("MonthOf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrent_SameMonthKeepsCounters(t *testing.T) {
	r := usage.Record{APIKey: "k", Month: "2024-01", Requests: 7}

	got, reset := usage.Current(r, "k", baseTime)

	if reset {
		t.Error("same month should not reset")
	}
	if got.Requests != 7 {
		t.Errorf("Requests = %d, want 7", got.Requests)
	}
}

func TestCurrent_NewMonthResets(t *testing.T) {
	last := baseTime.Add(-40 * 24 * time.Hour)
	r := usage.Record{APIKey: "k", Month: "2023-12", Requests: 7, Errors: 2, LastRequestAt: &last}

	got, reset := usage.Current(r, "k", baseTime)

	if !reset {
		t.Error("new month should reset")
	}
	if got.Month != "2024-01" {
		t.Errorf("Month = %q, want 2024-01", got.Month)
	}
	if got.Requests != 0 || got.Errors != 0 {
		t.Errorf("counters not reset: %+v", got)
	}
	if got.LastRequestAt != nil {
		t.Error("LastRequestAt should be nil after reset")
	}
}

func TestCurrent_ZeroRecord(t *testing.T) {
	got, reset := usage.Current(usage.Record{}, "k", baseTime)

	if !reset {
		t.Error("zero record should be treated as a reset")
	}
	if got.APIKey != "k" || got.Month != "2024-01" {
		t.Errorf("got %+v", got)
	}
}

func TestApply(t *testing.T) {
	r := usage.Record{APIKey: "k", Month: "2024-01", Requests: 1, CacheHits: 1}

	got := usage.Apply(r, "k", usage.Delta{Requests: 1, CacheMisses: 1, Errors: 1, RateLimited: 2}, baseTime)

	if got.Requests != 2 {
		t.Errorf("Requests = %d, want 2", got.Requests)
	}
	if got.CacheHits != 1 || got.CacheMisses != 1 || got.Errors != 1 || got.RateLimited != 2 {
		t.Errorf("unexpected counters: %+v", got)
	}
	if got.LastRequestAt == nil || !got.LastRequestAt.Equal(baseTime) {
		t.Errorf("LastRequestAt = %v, want %v", got.LastRequestAt, baseTime)
	}
}

func TestApply_RollsOverBeforeAdding(t *testing.T) {
	r := usage.Record{APIKey: "k", Month: "2023-12", Requests: 4999}

	got := usage.Apply(r, "k", usage.DeltaCacheHit, baseTime)

	if got.Month != "2024-01" {
		t.Errorf("Month = %q, want 2024-01", got.Month)
	}
	if got.Requests != 0 || got.CacheHits != 1 {
		t.Errorf("got %+v, want fresh month with one hit", got)
	}
}

func TestApply_ZeroDeltaStillStamps(t *testing.T) {
	got := usage.Apply(usage.Record{}, "k", usage.Delta{}, baseTime)

	if got.LastRequestAt == nil {
		t.Error("zero delta should still stamp LastRequestAt")
	}
}

func TestDelta_IsZero(t *testing.T) {
	if !(usage.Delta{}).IsZero() {
		t.Error("empty delta should be zero")
	}
	if usage.DeltaRateLimited.IsZero() {
		t.Error("DeltaRateLimited should not be zero")
	}
}

func TestApply_RequestsNeverNegative(t *testing.T) {
	r := usage.Record{APIKey: "k", Month: "2023-12", Requests: 3}

	got := usage.Apply(r, "k", usage.DeltaRateLimited, baseTime)

	if got.Requests != 0 || got.RateLimited != 1 {
		t.Errorf("got %+v, want release absorbed by the new month", got)
	}
}

func TestReserve(t *testing.T) {
	earlier := baseTime.Add(-time.Hour)

	tests := []struct {
		name         string
		rec          usage.Record
		quota        int64
		wantOK       bool
		wantRequests int64
		wantMonth    string
	}{
		{"first request", usage.Record{}, 5, true, 1, "2024-01"},
		{"below quota", usage.Record{APIKey: "k", Month: "2024-01", Requests: 4}, 5, true, 5, "2024-01"},
		{"at quota", usage.Record{APIKey: "k", Month: "2024-01", Requests: 5, LastRequestAt: &earlier}, 5, false, 5, "2024-01"},
		{"zero quota", usage.Record{}, 0, false, 0, "2024-01"},
		{"exhausted last month", usage.Record{APIKey: "k", Month: "2023-12", Requests: 5}, 5, true, 1, "2024-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := usage.Reserve(tt.rec, "k", tt.quota, baseTime)

			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got.Requests != tt.wantRequests || got.Month != tt.wantMonth {
				t.Errorf("got %+v, want requests %d in %s", got, tt.wantRequests, tt.wantMonth)
			}
			if ok && (got.LastRequestAt == nil || !got.LastRequestAt.Equal(baseTime)) {
				t.Errorf("LastRequestAt = %v, want %v", got.LastRequestAt, baseTime)
			}
			if !ok && tt.rec.LastRequestAt != nil && !got.LastRequestAt.Equal(earlier) {
				t.Errorf("refused reservation restamped LastRequestAt: %v", got.LastRequestAt)
			}
		})
	}
}
