package matches

import "sort"

// Catalog maps a sport to its fallback fixtures.
type Catalog map[string][]string

// DefaultCatalog returns the built-in fixtures served when upstream is
// unavailable. Each call returns a fresh map.
func DefaultCatalog() Catalog {
	return Catalog{
		"football": {
			"Premier League: Manchester City vs Arsenal",
			"La Liga: Barcelona vs Sevilla",
			"Serie A: Inter Milan vs Juventus",
		},
		"cricket": {
			"IPL: Chennai Super Kings vs Mumbai Indians",
			"ODI: India vs Australia",
			"Test: England vs South Africa",
		},
		"badminton": {
			"BWF Open: Lakshya Sen vs Viktor Axelsen",
			"Women Singles: P. V. Sindhu vs An Se-young",
			"Doubles: Satwik/Chirag vs Ahsan/Setiawan",
		},
		"hockey": {
			"FIH Pro League: India vs Netherlands",
			"Champions Trophy: Germany vs Belgium",
			"Asia Cup: Pakistan vs Malaysia",
		},
		"chess": {
			"Rapid Arena: Carlsen vs Nakamura",
			"Candidates: Nepomniachtchi vs Firouzja",
			"Chess.com Finals: Gukesh vs Praggnanandhaa",
		},
		"tennis": {
			"ATP Tour: Djokovic vs Alcaraz",
			"WTA Tour: Swiatek vs Sabalenka",
			"Doubles: Ram/Salisbury vs Bopanna/Ebden",
		},
		"basketball": {
			"NBA: Lakers vs Warriors",
			"EuroLeague: Real Madrid vs Fenerbahce",
			"NBA: Celtics vs Bucks",
		},
	}
}

// Fixtures returns a copy of the fixtures for sport, or an empty list.
func (c Catalog) Fixtures(sport string) []string {
	return cloneStrings(c[sport])
}

// Sports returns the catalog's sports in sorted order.
func (c Catalog) Sports() []string {
	out := make([]string, 0, len(c))
	for s := range c {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Clone deep-copies the catalog, normalizing sport names.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for sport, list := range c {
		out[NormalizeSport(sport)] = cloneStrings(list)
	}
	return out
}

// Fallback builds the payload served when upstream is skipped or failed.
// reason is empty when upstream was not configured.
// This is a PURE function.
func Fallback(sport string, fixtures []string, reason string) Payload {
	return Payload{
		Sport:          sport,
		Source:         SourceLocal,
		Matches:        cloneStrings(fixtures),
		FallbackReason: reason,
	}
}
