// Package artifact defines the two resolved package descriptors — Formula
// and Cask — that the registry produces and the pipeline consumes.
package artifact

import "github.com/neobrew-cli/neobrew/pkg/neobrewerr"

func errNoBottleFiles(name string) error {
	return neobrewerr.New(neobrewerr.CatalogError, "formula %q has no bottle files", name)
}

// Package is implemented by both resolved variants.
type Package interface {
	// ID returns the catalog identity: a Formula's name, a Cask's token.
	ID() string

	// Flatten returns the transitive closure of this package: a Formula
	// flattens its dependency DAG depth-first pre-order, a Cask returns
	// itself alone.
	Flatten() []Package

	// URL returns the canonical download URL for this package's payload.
	URL() (string, error)
}

// BottleFile is one platform's prebuilt binary payload.
type BottleFile struct {
	URL    string `json:"url"`
	SHA256 string `json:"sha256"`
}

// BottleStable is the stable-channel bottle record for a Formula.
type BottleStable struct {
	Rebuild uint64                `json:"rebuild"`
	Files   map[string]BottleFile `json:"files"`
}

// Bottle wraps the stable bottle record as the catalog does.
type Bottle struct {
	Stable BottleStable `json:"stable"`
}

// Versions carries the formula's version information.
type Versions struct {
	Stable string `json:"stable"`
}

// RawFormula is the catalog's JSON shape: dependencies are still bare
// names, not resolved Formula values.
type RawFormula struct {
	Name         string   `json:"name"`
	Versions     Versions `json:"versions"`
	Revision     uint64   `json:"revision"`
	Bottle       Bottle   `json:"bottle"`
	Dependencies []string `json:"dependencies"`
}

// Resolve pairs this raw descriptor with already-resolved dependency
// Formulae (in catalog order, duplicates referencing the same pointer) to
// produce the immutable, shared Formula.
func (r *RawFormula) Resolve(deps []*Formula) *Formula {
	return &Formula{
		Name:         r.Name,
		Versions:     r.Versions,
		Revision:     r.Revision,
		Bottle:       r.Bottle,
		Dependencies: deps,
	}
}

// Formula is a resolved, immutable formula descriptor. Its Dependencies
// reference other *Formula values shared by pointer identity: two formulae
// that depend on the same transitive dependency hold the same pointer.
type Formula struct {
	Name         string
	Versions     Versions
	Revision     uint64
	Bottle       Bottle
	Dependencies []*Formula
}

// ID returns the formula's name.
func (f *Formula) ID() string { return f.Name }

// Flatten returns f and its full dependency tree, depth-first pre-order,
// as Package values. Diamond dependencies appear once per occurrence in
// the tree (callers that need a deduplicated, sorted list — as the
// registry façade does — sort-and-dedupe the result themselves).
func (f *Formula) Flatten() []Package {
	deps := f.Iter()
	pkgs := make([]Package, len(deps))
	for i, dep := range deps {
		pkgs[i] = dep
	}
	return pkgs
}

// Iter returns f and every dependency reachable from it, depth-first
// pre-order, using an explicit stack rather than recursion so arbitrarily
// deep dependency chains never grow the Go call stack.
func (f *Formula) Iter() []*Formula {
	var out []*Formula
	stack := []*Formula{f}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		out = append(out, cur)
		for i := len(cur.Dependencies) - 1; i >= 0; i-- {
			stack = append(stack, cur.Dependencies[i])
		}
	}
	return out
}

// URL returns the download URL for one of this formula's bottle files. The
// catalog keys files by platform tag; since no platform selection is
// specified, the lexicographically first tag is used so the choice is
// deterministic.
func (f *Formula) URL() (string, error) {
	if len(f.Bottle.Stable.Files) == 0 {
		return "", errNoBottleFiles(f.Name)
	}
	best := ""
	for tag := range f.Bottle.Stable.Files {
		if best == "" || tag < best {
			best = tag
		}
	}
	return f.Bottle.Stable.Files[best].URL, nil
}

// RawCask is the catalog's JSON shape for a cask; it needs no further
// resolution, so RawCask and Cask are the same type.
type RawCask = Cask

// Cask is a resolved cask descriptor. Casks never have dependencies.
type Cask struct {
	Token       string   `json:"token"`
	Name        []string `json:"name"`
	DownloadURL string   `json:"url"`
	Version     string   `json:"version"`
	SHA256      string   `json:"sha256"`
}

// ID returns the cask's token.
func (c *Cask) ID() string { return c.Token }

// Flatten returns c alone: casks have no transitive dependencies.
func (c *Cask) Flatten() []Package { return []Package{c} }

// URL returns the cask's download URL.
func (c *Cask) URL() (string, error) { return c.DownloadURL, nil }
