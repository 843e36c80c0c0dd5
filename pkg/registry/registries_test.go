package registry

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/neobrew-cli/neobrew/pkg/appctx"
	"github.com/neobrew-cli/neobrew/pkg/cache"
)

// newTestRegistries wires a Registries façade to two httptest servers
// standing in for the formula and cask catalogs.
func newTestRegistries(t *testing.T, formulaHits, caskHits *int64, formulas map[string]formulaFixture, casks map[string]bool) *Registries {
	t.Helper()
	fServer := httptest.NewServer(formulaHandler(t, formulas, formulaHits))
	t.Cleanup(fServer.Close)
	cServer := httptest.NewServer(caskHandler(caskHits, casks))
	t.Cleanup(cServer.Close)

	appCtx := appctx.New(t.TempDir(), nil)
	store := cache.NewStore(t.TempDir())
	r := New(appCtx, store)
	r.Formula().baseURL = fServer.URL + "/api/formula"
	r.Cask().baseURL = cServer.URL + "/api/cask"
	return r
}

func TestRegistriesResolveFanInDedup(t *testing.T) {
	var formulaHits, caskHits int64
	fixtures := map[string]formulaFixture{
		"wget":        {Name: "wget", Dependencies: []string{"openssl@3", "libidn2"}},
		"openssl@3":   {Name: "openssl@3", Dependencies: []string{"ca-certificates"}},
		"libidn2":     {Name: "libidn2", Dependencies: []string{"ca-certificates"}},
		"ca-certificates": {Name: "ca-certificates"},
	}
	r := newTestRegistries(t, &formulaHits, &caskHits, fixtures, nil)

	pkgs, err := r.Resolve(context.Background(), []string{"wget", "wget", "wget"}, FormulaOnly)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if formulaHits != 4 {
		t.Fatalf("formula hits = %d, want 4", formulaHits)
	}
	ids := make([]string, len(pkgs))
	for i, p := range pkgs {
		ids[i] = p.ID()
	}
	want := []string{"ca-certificates", "libidn2", "openssl@3", "wget"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestRegistriesResolveBothFallsBackToCask(t *testing.T) {
	var formulaHits, caskHits int64
	r := newTestRegistries(t, &formulaHits, &caskHits, map[string]formulaFixture{}, map[string]bool{"firefox": true})

	pkgs, err := r.Resolve(context.Background(), []string{"firefox"}, Both)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(pkgs) != 1 || pkgs[0].ID() != "firefox" {
		t.Fatalf("pkgs = %v, want single firefox", pkgs)
	}
	if formulaHits != 1 || caskHits != 1 {
		t.Fatalf("formula hits = %d, cask hits = %d, want 1 and 1", formulaHits, caskHits)
	}
}

func TestRegistriesResolveEmptyInput(t *testing.T) {
	var formulaHits, caskHits int64
	r := newTestRegistries(t, &formulaHits, &caskHits, nil, nil)

	pkgs, err := r.Resolve(context.Background(), nil, Both)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(pkgs) != 0 {
		t.Fatalf("pkgs = %v, want empty", pkgs)
	}
	if formulaHits != 0 || caskHits != 0 {
		t.Fatalf("expected no HTTP calls, got formula=%d cask=%d", formulaHits, caskHits)
	}
}

func TestRegistriesResolveBothNotFoundMessage(t *testing.T) {
	var formulaHits, caskHits int64
	r := newTestRegistries(t, &formulaHits, &caskHits, map[string]formulaFixture{}, map[string]bool{})

	_, err := r.Resolve(context.Background(), []string{"ghost"}, Both)
	if err == nil {
		t.Fatal("expected error")
	}
	want := `Formula or cask "ghost" not found.`
	if got := err.Error(); got != fmt.Sprintf("%s: %s", "NOT_FOUND", want) {
		t.Fatalf("error = %q, want message %q", got, want)
	}
}
