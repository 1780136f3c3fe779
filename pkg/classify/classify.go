// Package classify derives semantic attributes from flight-sim package names.
//
// Package names in the content manifest are opaque strings like
// "communityfs24-acme-airport-egll-heathrow". This package maps them to a
// category (via a configurable ruleset), a content source (official or
// community), a simulator version, and a vendor token using ordered
// heuristic pattern matching.
//
// All functions here are pure and total: every input string, including the
// empty string, maps to a defined result. This keeps the parse-and-classify
// hot path free of error handling.
package classify

import "strings"

// Source identifies where a package came from.
type Source string

// Sim identifies the simulator generation a package targets.
type Sim string

// Package source and simulator version values.
const (
	SourceOfficial  Source = "official"
	SourceCommunity Source = "community"

	SimFS20 Sim = "fs20"
	SimFS24 Sim = "fs24"
)

// namePrefixes are the recognized package-name prefixes, most specific
// first. Order matters both for source/sim dispatch and vendor stripping.
var namePrefixes = []struct {
	prefix string
	source Source
	sim    Sim
}{
	{"communityfs24-", SourceCommunity, SimFS24},
	{"communityfs20-", SourceCommunity, SimFS20},
	{"fs24-", SourceOfficial, SimFS24},
	{"fs20-", SourceOfficial, SimFS20},
}

// legacyHints mark official MSFS 2020 content that predates the
// fs20-/fs24- prefix convention (e.g. "fs-base", "asobo-aircraft-...").
// The list is a heuristic and is intentionally not extended without
// product guidance; names it misses default to (official, fs24).
var legacyHints = []string{
	"fs-base",
	"asobo-aircraft",
	"asobo-vcockpits",
	"microsoft-",
	"asobo-",
	"wombi",
}

// Classification is the full derived attribute set for a package name.
type Classification struct {
	Category string
	Source   Source
	Sim      Sim
	Vendor   string
}

// Classify derives all attributes for name under the given ruleset.
func Classify(name string, rs *Ruleset) Classification {
	src, sim := SourceAndSim(name)
	return Classification{
		Category: Category(name, rs),
		Source:   src,
		Sim:      sim,
		Vendor:   Vendor(name),
	}
}

// Category returns the name of the first category whose any pattern is a
// case-insensitive substring of name. Categories and patterns are checked
// in declaration order; the first match wins. Unmatched names fall back to
// the ruleset's default category.
func Category(name string, rs *Ruleset) string {
	if rs == nil {
		rs = DefaultRuleset()
	}
	n := strings.ToLower(name)
	for _, cat := range rs.Categories {
		for _, pat := range cat.Patterns {
			// Plain substring semantics; an empty pattern matches every
			// name, making a rule an explicit catch-all.
			if strings.Contains(n, strings.ToLower(pat)) {
				return cat.Name
			}
		}
	}
	return rs.DefaultCategory
}

// SourceAndSim derives the content source and simulator version from a
// package name. Prefixed names are dispatched first; only unprefixed names
// fall through to the legacy-hint scan, and names matching nothing default
// to (official, fs24).
func SourceAndSim(name string) (Source, Sim) {
	n := strings.ToLower(name)

	for _, p := range namePrefixes {
		if strings.HasPrefix(n, p.prefix) {
			return p.source, p.sim
		}
	}

	for _, h := range legacyHints {
		if strings.Contains(n, h) {
			return SourceOfficial, SimFS20
		}
	}

	return SourceOfficial, SimFS24
}

// Vendor extracts the vendor token from a package name: the segment after
// the recognized prefix (if any) up to the next "-", lower-cased. An empty
// result is valid.
func Vendor(name string) string {
	base := name
	for _, p := range namePrefixes {
		if strings.HasPrefix(strings.ToLower(base), p.prefix) {
			base = base[len(p.prefix):]
			break
		}
	}
	vendor, _, _ := strings.Cut(base, "-")
	return strings.ToLower(vendor)
}
