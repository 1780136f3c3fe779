package manifest

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/fswrangler/fswrangler/pkg/classify"
)

// Query is a composable record filter. Zero-valued fields match
// everything, so callers set only the axes they care about.
type Query struct {
	Source   classify.Source // "" matches all sources
	Sim      classify.Sim    // "" matches all simulator versions
	Category string          // "" matches all categories
	Status   Status          // "" matches all statuses
	Search   string          // fuzzy match over "name vendor", "" matches all
}

// Filter returns the indices of matching records in original file order.
// The collection itself is never reordered; presentation layers sort the
// returned indices however they like.
func (q Query) Filter(c *Collection) []int {
	matched := make([]int, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if q.matches(c.Get(i)) {
			matched = append(matched, i)
		}
	}

	if q.Search == "" {
		return matched
	}

	// Fuzzy-rank the structural matches by name+vendor, then restore
	// ordinal order so diff previews stay deterministic.
	haystack := make([]string, len(matched))
	for j, i := range matched {
		r := c.Get(i)
		haystack[j] = r.Name + " " + r.Vendor
	}
	var hits []int
	for _, m := range fuzzy.Find(q.Search, haystack) {
		hits = append(hits, matched[m.Index])
	}
	for a := 1; a < len(hits); a++ {
		for b := a; b > 0 && hits[b] < hits[b-1]; b-- {
			hits[b], hits[b-1] = hits[b-1], hits[b]
		}
	}
	return hits
}

func (q Query) matches(r *Record) bool {
	if q.Source != "" && r.Source != q.Source {
		return false
	}
	if q.Sim != "" && r.Sim != q.Sim {
		return false
	}
	if q.Category != "" && !strings.EqualFold(r.Category, q.Category) {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}
