package cli

import (
	"testing"

	"github.com/fswrangler/fswrangler/pkg/classify"
	"github.com/fswrangler/fswrangler/pkg/manifest"
)

func TestBuildQuery(t *testing.T) {
	q, err := buildQuery("official", "fs24", "Aircraft", "Activated", "a320")
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if q.Source != classify.SourceOfficial || q.Sim != classify.SimFS24 {
		t.Errorf("query = %+v", q)
	}
	if q.Category != "Aircraft" || q.Status != manifest.Activated || q.Search != "a320" {
		t.Errorf("query = %+v", q)
	}
}

func TestBuildQueryEmptyIsUnfiltered(t *testing.T) {
	q, err := buildQuery("", "", "", "", "")
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if q != (manifest.Query{}) {
		t.Errorf("query = %+v, want zero value", q)
	}
}

func TestBuildQueryRejectsBadFlags(t *testing.T) {
	cases := []struct {
		name                         string
		source, sim, category, state string
	}{
		{"source", "steam", "", "", ""},
		{"sim", "", "fs19", "", ""},
		{"status", "", "", "", "Broken"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := buildQuery(tc.source, tc.sim, tc.category, tc.state, ""); err == nil {
				t.Errorf("buildQuery accepted bad %s", tc.name)
			}
		})
	}
}
