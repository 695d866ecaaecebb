// Package plan provides plan value types and pure functions.
package plan

import "sort"

// Known plan identifiers.
const (
	Free = "free"
	Pro  = "pro"
)

// Limits holds the admission limits of a plan (value type).
type Limits struct {
	RateLimitPerMinute int
	MonthlyQuota       int64
}

// Table maps plan identifiers to limits. Immutable after startup:
// callers must treat it as read-only once handed to the gateway.
type Table map[string]Limits

// DefaultTable returns the stock free/pro limits.
func DefaultTable() Table {
	return Table{
		Free: {RateLimitPerMinute: 60, MonthlyQuota: 5000},
		Pro:  {RateLimitPerMinute: 600, MonthlyQuota: 100000},
	}
}

// Lookup returns the limits for a plan, falling back to the free plan for
// identifiers the table does not know.
// This is a PURE function.
func (t Table) Lookup(id string) Limits {
	if l, ok := t[id]; ok {
		return l
	}
	return t[Free]
}

// Has reports whether id is a configured plan.
func (t Table) Has(id string) bool {
	_, ok := t[id]
	return ok
}

// IDs returns the configured plan identifiers in sorted order.
func (t Table) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Remaining returns how many requests are left in the month, never negative.
// This is a PURE function.
func Remaining(l Limits, used int64) int64 {
	if used >= l.MonthlyQuota {
		return 0
	}
	return l.MonthlyQuota - used
}

// QuotaExhausted reports whether used has reached the monthly quota.
// This is a PURE function.
func QuotaExhausted(l Limits, used int64) bool {
	return used >= l.MonthlyQuota
}
