// Package usage provides the monthly usage record and its pure update rules.
// All functions are pure - no side effects.
package usage

import "time"

// MonthLayout formats a calendar month as "YYYY-MM".
const MonthLayout = "2006-01"

// Record is the live usage tally of one key for one calendar month (value type).
// Only the current month is kept: older months are discarded on rollover.
type Record struct {
	APIKey        string
	Month         string
	Requests      int64
	Errors        int64
	CacheHits     int64
	CacheMisses   int64
	RateLimited   int64
	LastRequestAt *time.Time
}

// Delta is an additive change to a Record. Zero fields leave counters untouched.
type Delta struct {
	Requests    int64
	Errors      int64
	CacheHits   int64
	CacheMisses int64
	RateLimited int64
}

// Outcome deltas recorded by the admission pipeline after Reserve counted the
// request. DeltaRateLimited gives the reserved request back.
var (
	DeltaCacheHit    = Delta{CacheHits: 1}
	DeltaCacheMiss   = Delta{CacheMisses: 1}
	DeltaRateLimited = Delta{Requests: -1, RateLimited: 1}
	DeltaInternal    = Delta{Errors: 1, CacheMisses: 1}
)

// MonthOf returns the UTC calendar month of t.
// This is a PURE function.
func MonthOf(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// Current returns r if it belongs to the month of now, otherwise a zeroed
// record for the new month. The second result reports whether a reset happened.
// This is a PURE function.
func Current(r Record, apiKey string, now time.Time) (Record, bool) {
	month := MonthOf(now)
	if r.Month == month {
		return r, false
	}
	return Record{APIKey: apiKey, Month: month}, true
}

// Apply rolls r over to the month of now if needed, adds d and stamps
// LastRequestAt with now. Requests never goes below zero, so a release that
// lands after a month rollover is absorbed.
// This is a PURE function.
func Apply(r Record, apiKey string, d Delta, now time.Time) Record {
	r, _ = Current(r, apiKey, now)
	r.Requests += d.Requests
	if r.Requests < 0 {
		r.Requests = 0
	}
	r.Errors += d.Errors
	r.CacheHits += d.CacheHits
	r.CacheMisses += d.CacheMisses
	r.RateLimited += d.RateLimited
	at := now.UTC()
	r.LastRequestAt = &at
	return r
}

// Reserve rolls r over to the month of now if needed and counts one request
// when fewer than quota have been counted. The second result reports whether
// the request was admitted; a refused reservation leaves r's counters and
// LastRequestAt as they were.
// This is a PURE function.
func Reserve(r Record, apiKey string, quota int64, now time.Time) (Record, bool) {
	r, _ = Current(r, apiKey, now)
	if r.Requests >= quota {
		return r, false
	}
	r.Requests++
	at := now.UTC()
	r.LastRequestAt = &at
	return r, true
}

// IsZero reports whether d changes nothing.
func (d Delta) IsZero() bool {
	return d == Delta{}
}
