package cli

import (
	"context"
	"testing"

	"github.com/fswrangler/fswrangler/pkg/errors"
	"github.com/fswrangler/fswrangler/pkg/manifest"
)

func TestRunSetStatusRequiresSelection(t *testing.T) {
	err := runSetStatus(context.Background(), "", nil, "", manifest.Activated, false)
	if err == nil {
		t.Fatal("expected an error with no names and no search")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}
