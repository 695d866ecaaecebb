// Package matches provides the fixture payload and its pure helpers.
package matches

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultSport is used when the caller names no sport.
const DefaultSport = "football"

// Sources a payload can come from.
const (
	SourceUpstream      = "upstream"           // raw fetcher result
	SourceUpstreamProxy = "upstream-proxy"     // upstream result served through the gateway
	SourceLocal         = "local-demo-backend" // fallback catalog
)

// Payload is the fixture list served for one sport (value type).
type Payload struct {
	Sport          string   `json:"sport"`
	Source         string   `json:"source"`
	Matches        []string `json:"matches"`
	FallbackReason string   `json:"fallbackReason,omitempty"`
	Cached         bool     `json:"cached"`
}

// Clone returns a copy that shares no slice memory with p.
func (p Payload) Clone() Payload {
	out := p
	out.Matches = cloneStrings(p.Matches)
	return out
}

// NormalizeSport trims and lower-cases a sport name, defaulting to football.
// This is a PURE function.
func NormalizeSport(sport string) string {
	s := strings.ToLower(strings.TrimSpace(sport))
	if s == "" {
		return DefaultSport
	}
	return s
}

// Normalize turns an upstream JSON body into a list of fixture strings.
// Accepted shapes are a bare array or an object with a "matches" array;
// anything else yields an empty list. An error is returned only when the
// body is not valid JSON.
// This is a PURE function.
func Normalize(body []byte) ([]string, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		if arr, ok := v["matches"].([]any); ok {
			items = arr
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringify(item))
	}
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return ""
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
