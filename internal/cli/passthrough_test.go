package cli

import (
	"context"
	"testing"

	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

func TestPassthroughMissingBrewIsCatalogError(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	err := passthrough(context.Background(), []string{"list"})
	if err == nil {
		t.Fatal("expected error when brew is not on PATH")
	}
	if neobrewerr.GetCode(err) != neobrewerr.CatalogError {
		t.Fatalf("GetCode() = %v, want %v", neobrewerr.GetCode(err), neobrewerr.CatalogError)
	}
}
