package matches_test

import (
	"reflect"
	"testing"

	"github.com/artpar/sportsgate/domain/matches"
)

func TestNormalizeSport(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "football"},
		{"   ", "football"},
		{"Cricket", "cricket"},
		{"  TENNIS ", "tennis"},
		{"curling", "curling"},
	}

	for _, tt := range tests {
		if got := matches.NormalizeSport(tt.in); got != tt.want {
			t.Errorf("NormalizeSport(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"bare array", `["a","b"]`, []string{"a", "b"}},
		{"matches field", `{"matches":["x"],"other":1}`, []string{"x"}},
		{"object without matches", `{"data":["x"]}`, []string{}},
		{"matches not an array", `{"matches":"x"}`, []string{}},
		{"scalar body", `42`, []string{}},
		{"null body", `null`, []string{}},
		{"empty array", `[]`, []string{}},
		{
			"mixed items are stringified",
			`[1, 2.5, true, null, "s", {"home":"A","away":"B"}, [1,2]]`,
			[]string{"1", "2.5", "true", "null", "s", `{"away":"B","home":"A"}`, "[1,2]"},
		},
		{"no html escaping", `[{"t":"A & B <x>"}]`, []string{`{"t":"A & B <x>"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matches.Normalize([]byte(tt.body))
			if err != nil {
				t.Fatalf("Normalize error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalize_InvalidJSON(t *testing.T) {
	if _, err := matches.Normalize([]byte("<html>")); err == nil {
		t.Error("expected error for non-JSON body")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := matches.DefaultCatalog()

	want := []string{"badminton", "basketball", "chess", "cricket", "football", "hockey", "tennis"}
	if got := c.Sports(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sports() = %v, want %v", got, want)
	}
	for _, s := range want {
		if n := len(c[s]); n != 3 {
			t.Errorf("%s has %d fixtures, want 3", s, n)
		}
	}
	if got := c["football"][0]; got != "Premier League: Manchester City vs Arsenal" {
		t.Errorf("football[0] = %q", got)
	}
}

func TestCatalog_FixturesReturnsCopy(t *testing.T) {
	c := matches.DefaultCatalog()

	got := c.Fixtures("football")
	got[0] = "changed"

	if c["football"][0] == "changed" {
		t.Error("Fixtures should return a copy")
	}
}

func TestCatalog_FixturesUnknownSport(t *testing.T) {
	got := matches.DefaultCatalog().Fixtures("curling")
	if got == nil || len(got) != 0 {
		t.Errorf("Fixtures(unknown) = %#v, want empty non-nil slice", got)
	}
}

func TestCatalog_CloneNormalizesNames(t *testing.T) {
	c := matches.Catalog{" Rugby ": {"A vs B"}}

	got := c.Clone()

	if _, ok := got["rugby"]; !ok {
		t.Errorf("Clone keys = %v, want rugby", got.Sports())
	}
}

func TestFallback(t *testing.T) {
	c := matches.DefaultCatalog()

	p := matches.Fallback("cricket", c["cricket"], "upstream status 503")

	if p.Source != matches.SourceLocal {
		t.Errorf("Source = %q", p.Source)
	}
	if p.FallbackReason != "upstream status 503" {
		t.Errorf("FallbackReason = %q", p.FallbackReason)
	}
	if len(p.Matches) != 3 || p.Cached {
		t.Errorf("unexpected payload %+v", p)
	}

	if empty := matches.Fallback("curling", nil, ""); empty.Matches == nil {
		t.Error("unknown sport should yield an empty, non-nil list")
	}
}

func TestPayload_Clone(t *testing.T) {
	p := matches.Payload{Sport: "x", Matches: []string{"a"}}

	c := p.Clone()
	c.Matches[0] = "b"

	if p.Matches[0] != "a" {
		t.Error("Clone should not share the matches slice")
	}
}
