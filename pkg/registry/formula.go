package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/neobrew-cli/neobrew/pkg/appctx"
	"github.com/neobrew-cli/neobrew/pkg/artifact"
	"github.com/neobrew-cli/neobrew/pkg/cache"
	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

const formulaCatalogURL = "https://formulae.brew.sh/api/formula"

// FormulaRegistry resolves formula names against the upstream catalog,
// expanding transitive dependencies and rejecting cycles along the way.
// It deduplicates concurrent lookups of the same name and persists every
// successfully fetched document to the content store.
type FormulaRegistry struct {
	ctx     *appctx.Context
	store   *cache.Store
	baseURL string

	mu       sync.RWMutex
	resolved map[string]*artifact.Formula

	group singleflight.Group
}

// NewFormulaRegistry returns a registry backed by ctx's HTTP client and
// concurrency limit, persisting fetched documents through store.
func NewFormulaRegistry(ctx *appctx.Context, store *cache.Store) *FormulaRegistry {
	return &FormulaRegistry{
		ctx:      ctx,
		store:    store,
		baseURL:  formulaCatalogURL,
		resolved: make(map[string]*artifact.Formula),
	}
}

// Resolve fetches and fully resolves name, including its transitive
// dependency tree, sharing in-flight work with any concurrent caller
// resolving the same name.
func (r *FormulaRegistry) Resolve(ctx context.Context, name string) (*artifact.Formula, error) {
	return r.resolveWithStack(ctx, name, nil)
}

func (r *FormulaRegistry) resolveWithStack(ctx context.Context, name string, stack []string) (*artifact.Formula, error) {
	for _, seen := range stack {
		if seen == name {
			path := append(append([]string{}, stack...), name)
			return nil, neobrewerr.New(neobrewerr.CircularDependency, "%s", neobrewerr.CycleMessage(path))
		}
	}
	nextStack := make([]string, len(stack)+1)
	copy(nextStack, stack)
	nextStack[len(stack)] = name

	if f, ok := r.lookup(name); ok {
		return f, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		if f, ok := r.lookup(name); ok {
			return f, nil
		}

		raw, body, err := r.fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := r.store.Put(cache.Formula, name, body); err != nil {
			return nil, err
		}

		deps, err := r.resolveDependencies(ctx, raw.Dependencies, nextStack)
		if err != nil {
			return nil, err
		}

		formula := raw.Resolve(deps)
		r.mu.Lock()
		r.resolved[name] = formula
		r.mu.Unlock()
		return formula, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*artifact.Formula), nil
}

// resolveDependencies resolves each dependency name concurrently, bounded
// globally by ctx's shared semaphore, and preserves catalog order in the
// result. The first failure cancels the rest.
func (r *FormulaRegistry) resolveDependencies(ctx context.Context, names []string, stack []string) ([]*artifact.Formula, error) {
	if len(names) == 0 {
		return nil, nil
	}
	deps := make([]*artifact.Formula, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := r.ctx.Semaphore().Acquire(gctx, 1); err != nil {
				return err
			}
			defer r.ctx.Semaphore().Release(1)
			dep, err := r.resolveWithStack(gctx, name, stack)
			if err != nil {
				return err
			}
			deps[i] = dep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *FormulaRegistry) lookup(name string) (*artifact.Formula, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.resolved[name]
	return f, ok
}

func (r *FormulaRegistry) fetch(ctx context.Context, name string) (*artifact.RawFormula, []byte, error) {
	url := fmt.Sprintf("%s/%s.json", r.baseURL, name)

	var body []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := r.ctx.HTTPClient().Do(req)
		if err != nil {
			return cache.Retryable(neobrewerr.Wrap(neobrewerr.CatalogError, err, "fetch formula %q", name))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return cache.Retryable(neobrewerr.Wrap(neobrewerr.CatalogError, err, "read formula %q response body", name))
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return neobrewerr.New(neobrewerr.NotFound, "formula %q not found", name)
		case resp.StatusCode >= 500:
			return cache.Retryable(neobrewerr.New(neobrewerr.CatalogError, "formula %q: server error %d", name, resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return neobrewerr.New(neobrewerr.CatalogError, "formula %q: unexpected status %d", name, resp.StatusCode)
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var raw artifact.RawFormula
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, neobrewerr.Wrap(neobrewerr.CatalogError, err, "decode formula %q", name)
	}
	return &raw, body, nil
}
