package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/neobrew-cli/neobrew/pkg/appctx"
	"github.com/neobrew-cli/neobrew/pkg/cache"
	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

func caskHandler(hits *int64, known map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		token := r.URL.Path[len("/api/cask/") : len(r.URL.Path)-len(".json")]
		if !known[token] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"token":%q,"name":["Firefox"],"url":"https://example.com/%s.dmg","version":"1.0","sha256":"x"}`, token, token)
	}
}

func TestCaskRegistryResolve(t *testing.T) {
	var hits int64
	server := httptest.NewServer(caskHandler(&hits, map[string]bool{"firefox": true}))
	t.Cleanup(server.Close)

	r := NewCaskRegistry(appctx.New(t.TempDir(), nil), cache.NewStore(t.TempDir()))
	r.baseURL = server.URL + "/api/cask"

	c, err := r.Resolve(context.Background(), "firefox")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.Token != "firefox" {
		t.Fatalf("Token = %q, want firefox", c.Token)
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestCaskRegistryDedupesConcurrentCallers(t *testing.T) {
	var hits int64
	server := httptest.NewServer(caskHandler(&hits, map[string]bool{"firefox": true}))
	t.Cleanup(server.Close)

	r := NewCaskRegistry(appctx.New(t.TempDir(), nil), cache.NewStore(t.TempDir()))
	r.baseURL = server.URL + "/api/cask"

	const n = 10
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := r.Resolve(context.Background(), "firefox")
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestCaskRegistryNotFound(t *testing.T) {
	var hits int64
	server := httptest.NewServer(caskHandler(&hits, map[string]bool{}))
	t.Cleanup(server.Close)

	r := NewCaskRegistry(appctx.New(t.TempDir(), nil), cache.NewStore(t.TempDir()))
	r.baseURL = server.URL + "/api/cask"

	_, err := r.Resolve(context.Background(), "nope")
	if neobrewerr.GetCode(err) != neobrewerr.NotFound {
		t.Fatalf("GetCode() = %v, want NotFound", neobrewerr.GetCode(err))
	}
}
