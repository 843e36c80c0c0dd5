package registry

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/neobrew-cli/neobrew/pkg/appctx"
	"github.com/neobrew-cli/neobrew/pkg/artifact"
	"github.com/neobrew-cli/neobrew/pkg/cache"
	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

// Registries coordinates the formula and cask registries behind a single
// name-resolution entry point parameterized by Strategy.
type Registries struct {
	ctx   *appctx.Context
	store *cache.Store

	formulaOnce sync.Once
	formula     *FormulaRegistry

	caskOnce sync.Once
	cask     *CaskRegistry
}

// New returns a Registries façade. Neither per-catalog registry is built
// until first use.
func New(ctx *appctx.Context, store *cache.Store) *Registries {
	return &Registries{ctx: ctx, store: store}
}

// Formula returns the lazily constructed formula registry.
func (r *Registries) Formula() *FormulaRegistry {
	r.formulaOnce.Do(func() {
		r.formula = NewFormulaRegistry(r.ctx, r.store)
	})
	return r.formula
}

// Cask returns the lazily constructed cask registry.
func (r *Registries) Cask() *CaskRegistry {
	r.caskOnce.Do(func() {
		r.cask = NewCaskRegistry(r.ctx, r.store)
	})
	return r.cask
}

// Resolve resolves every name in names under strategy, flattens each
// result into its transitive closure, and returns the union sorted by ID
// with adjacent duplicates removed. The first per-name failure aborts the
// rest.
func (r *Registries) Resolve(ctx context.Context, names []string, strategy Strategy) ([]artifact.Package, error) {
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return nil, err
		}
	}

	resolved := make([]artifact.Package, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.ctx.ConcurrencyLimit())
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := r.ctx.Semaphore().Acquire(gctx, 1); err != nil {
				return err
			}
			defer r.ctx.Semaphore().Release(1)
			pkg, err := r.resolveOne(gctx, name, strategy)
			if err != nil {
				return err
			}
			resolved[i] = pkg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []artifact.Package
	for _, pkg := range resolved {
		flat = append(flat, pkg.Flatten()...)
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].ID() < flat[j].ID() })

	out := flat[:0]
	for i, pkg := range flat {
		if i == 0 || pkg.ID() != out[len(out)-1].ID() {
			out = append(out, pkg)
		}
	}
	return out, nil
}

func (r *Registries) resolveOne(ctx context.Context, name string, strategy Strategy) (artifact.Package, error) {
	if strategy == FormulaOnly || strategy == Both {
		f, err := r.Formula().Resolve(ctx, name)
		if err == nil {
			return f, nil
		}
		if strategy == FormulaOnly {
			return nil, err
		}
		r.ctx.Logger().Debugf("formula resolution for %q failed, falling back to cask: %v", name, err)
	}

	if strategy == CaskOnly || strategy == Both {
		c, err := r.Cask().Resolve(ctx, name)
		if err == nil {
			return c, nil
		}
		if strategy == CaskOnly {
			return nil, err
		}
		return nil, neobrewerr.New(neobrewerr.NotFound, "%s", neobrewerr.NotFoundMessage(name))
	}

	return nil, neobrewerr.New(neobrewerr.NotFound, "%s", neobrewerr.NotFoundMessage(name))
}
