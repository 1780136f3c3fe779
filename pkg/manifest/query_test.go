package manifest

import (
	"testing"

	"github.com/fswrangler/fswrangler/pkg/classify"
)

func queryCollection() *Collection {
	return NewCollection([]Record{
		{Name: "fs24-acme-airport-egll-x", Status: Activated, Source: classify.SourceOfficial, Sim: classify.SimFS24, Category: "Airport", Vendor: "acme", Ordinal: 0},
		{Name: "communityfs24-bravo-livery-a320", Status: UserDisabled, Source: classify.SourceCommunity, Sim: classify.SimFS24, Category: "Livery", Vendor: "bravo", Ordinal: 1},
		{Name: "fs20-acme-aircraft-c172", Status: Activated, Source: classify.SourceOfficial, Sim: classify.SimFS20, Category: "Aircraft", Vendor: "acme", Ordinal: 2},
		{Name: "communityfs20-charlie-scenery-x", Status: SystemDisabled, Source: classify.SourceCommunity, Sim: classify.SimFS20, Category: "Scenery", Vendor: "charlie", Ordinal: 3},
	})
}

func TestQueryEmptyMatchesAll(t *testing.T) {
	c := queryCollection()
	got := Query{}.Filter(c)
	if len(got) != 4 {
		t.Fatalf("matched %d, want 4", len(got))
	}
	for i, idx := range got {
		if idx != i {
			t.Errorf("result order %v, want file order", got)
		}
	}
}

func TestQueryAxes(t *testing.T) {
	c := queryCollection()

	tests := []struct {
		name string
		q    Query
		want []int
	}{
		{"source", Query{Source: classify.SourceCommunity}, []int{1, 3}},
		{"sim", Query{Sim: classify.SimFS20}, []int{2, 3}},
		{"category", Query{Category: "Airport"}, []int{0}},
		{"category case-insensitive", Query{Category: "airport"}, []int{0}},
		{"status", Query{Status: Activated}, []int{0, 2}},
		{"combined", Query{Source: classify.SourceOfficial, Status: Activated, Sim: classify.SimFS24}, []int{0}},
		{"no match", Query{Category: "Missions"}, nil},
	}

	for _, tt := range tests {
		got := tt.q.Filter(c)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
				break
			}
		}
	}
}

func TestQuerySearch(t *testing.T) {
	c := queryCollection()

	got := Query{Search: "acme"}.Filter(c)
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("search acme = %v, want [0 2]", got)
	}

	// Search composes with the structural predicates.
	got = Query{Search: "acme", Sim: classify.SimFS20}.Filter(c)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("search acme + fs20 = %v, want [2]", got)
	}

	got = Query{Search: "zzzzqqqq"}.Filter(c)
	if len(got) != 0 {
		t.Errorf("impossible search matched %v", got)
	}
}

func TestQuerySearchResultsInFileOrder(t *testing.T) {
	c := queryCollection()
	got := Query{Search: "c"}.Filter(c)
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Errorf("search results out of file order: %v", got)
		}
	}
}
