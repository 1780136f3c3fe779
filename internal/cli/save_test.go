package cli

import (
	"testing"

	"github.com/fswrangler/fswrangler/pkg/manifest"
)

func TestCountLegacy(t *testing.T) {
	col := manifest.NewCollection([]manifest.Record{
		{Name: "communityfs20-old-scenery", Status: manifest.Activated},
		{Name: "CommunityFS20-OLD-UTIL", Status: manifest.Activated},
		{Name: "communityfs24-new-scenery", Status: manifest.Activated},
		{Name: "fs24-asobo-aircraft", Status: manifest.Activated},
	})

	if got := countLegacy(col); got != 2 {
		t.Errorf("countLegacy = %d, want 2", got)
	}
}
