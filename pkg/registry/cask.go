package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/neobrew-cli/neobrew/pkg/appctx"
	"github.com/neobrew-cli/neobrew/pkg/artifact"
	"github.com/neobrew-cli/neobrew/pkg/cache"
	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

const caskCatalogURL = "https://formulae.brew.sh/api/cask"

// CaskRegistry resolves cask tokens against the upstream catalog. Casks
// have no transitive dependencies, so resolution is a single fetch.
type CaskRegistry struct {
	ctx     *appctx.Context
	store   *cache.Store
	baseURL string

	mu       sync.RWMutex
	resolved map[string]*artifact.Cask

	group singleflight.Group
}

// NewCaskRegistry returns a registry backed by ctx's HTTP client,
// persisting fetched documents through store.
func NewCaskRegistry(ctx *appctx.Context, store *cache.Store) *CaskRegistry {
	return &CaskRegistry{
		ctx:      ctx,
		store:    store,
		baseURL:  caskCatalogURL,
		resolved: make(map[string]*artifact.Cask),
	}
}

// Resolve fetches and resolves name, sharing in-flight work with any
// concurrent caller resolving the same name.
func (r *CaskRegistry) Resolve(ctx context.Context, name string) (*artifact.Cask, error) {
	if c, ok := r.lookup(name); ok {
		return c, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		if c, ok := r.lookup(name); ok {
			return c, nil
		}
		c, body, err := r.fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := r.store.Put(cache.Cask, name, body); err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.resolved[name] = c
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*artifact.Cask), nil
}

func (r *CaskRegistry) lookup(name string) (*artifact.Cask, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.resolved[name]
	return c, ok
}

func (r *CaskRegistry) fetch(ctx context.Context, name string) (*artifact.Cask, []byte, error) {
	url := fmt.Sprintf("%s/%s.json", r.baseURL, name)

	var body []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := r.ctx.HTTPClient().Do(req)
		if err != nil {
			return cache.Retryable(neobrewerr.Wrap(neobrewerr.CatalogError, err, "fetch cask %q", name))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return cache.Retryable(neobrewerr.Wrap(neobrewerr.CatalogError, err, "read cask %q response body", name))
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return neobrewerr.New(neobrewerr.NotFound, "cask %q not found", name)
		case resp.StatusCode >= 500:
			return cache.Retryable(neobrewerr.New(neobrewerr.CatalogError, "cask %q: server error %d", name, resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return neobrewerr.New(neobrewerr.CatalogError, "cask %q: unexpected status %d", name, resp.StatusCode)
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var c artifact.Cask
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, nil, neobrewerr.Wrap(neobrewerr.CatalogError, err, "decode cask %q", name)
	}
	return &c, body, nil
}
