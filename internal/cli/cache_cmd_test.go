package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/neobrew-cli/neobrew/pkg/appctx"
	"github.com/neobrew-cli/neobrew/pkg/cache"
	"github.com/neobrew-cli/neobrew/pkg/registry"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	appCtx := appctx.New(t.TempDir(), log.New(&bytes.Buffer{}))
	store := cache.NewStore(appCtx.CacheDir())
	return &CLI{
		Logger:     log.New(&bytes.Buffer{}),
		appCtx:     appCtx,
		store:      store,
		registries: registry.New(appCtx, store),
	}
}

func TestCachePathCommandPrintsDir(t *testing.T) {
	c := newTestCLI(t)
	cmd := c.cachePathCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("RunE() error = %v", err)
	}
	if !strings.Contains(out.String(), c.appCtx.CacheDir()) {
		t.Fatalf("output = %q, want it to contain %q", out.String(), c.appCtx.CacheDir())
	}
}

func TestCacheClearCommandRemovesDirectory(t *testing.T) {
	c := newTestCLI(t)
	if err := c.store.Put(cache.Formula, "wget", []byte(`{}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("RunE() error = %v", err)
	}

	if _, err := c.store.Read(cache.Formula, "wget"); err == nil {
		t.Fatal("expected read to fail after clear")
	}
}

func TestCacheInspectCommandRoundTrips(t *testing.T) {
	c := newTestCLI(t)
	if err := c.store.Put(cache.Formula, "wget", []byte(`{"name":"wget"}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	cmd := c.cacheInspectCommand()
	if err := cmd.RunE(cmd, []string{"wget"}); err != nil {
		t.Fatalf("RunE() error = %v", err)
	}
}

func TestCacheInspectCommandMissingIsError(t *testing.T) {
	c := newTestCLI(t)
	cmd := c.cacheInspectCommand()
	if err := cmd.RunE(cmd, []string{"nope"}); err == nil {
		t.Fatal("expected error for missing cache entry")
	}
}

func TestRootCommandHasExpectedSubcommands(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"install", "uninstall", "cache", "completion"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("root commands = %v, want to contain %q", names, want)
		}
	}
}
