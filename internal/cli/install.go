package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/neobrew-cli/neobrew/pkg/artifact"
	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
	"github.com/neobrew-cli/neobrew/pkg/pipeline"
	"github.com/neobrew-cli/neobrew/pkg/pipeline/operator"
	"github.com/neobrew-cli/neobrew/pkg/registry"
)

// cellarDir returns the staging directory individual package payloads
// are extracted into. neobrew stages bottle contents here rather than
// linking them into a real Homebrew prefix: installation onto disk
// locations proper is left to brew itself.
func (c *CLI) cellarDir() string {
	return filepath.Join(c.appCtx.CacheDir(), "Cellar")
}

func (c *CLI) installCommand() *cobra.Command {
	var formula, cask bool

	cmd := &cobra.Command{
		Use:   "install <name>...",
		Short: "Resolve and fetch one or more formulae or casks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := registry.ParseStrategy(formula, cask)
			if err != nil {
				return err
			}
			return c.runInstall(cmd.Context(), args, strategy)
		},
	}

	cmd.Flags().BoolVar(&formula, "formula", false, "treat every name as a formula")
	cmd.Flags().BoolVar(&formula, "formulae", false, "alias of --formula")
	cmd.Flags().BoolVar(&cask, "cask", false, "treat every name as a cask")
	cmd.Flags().BoolVar(&cask, "casks", false, "alias of --cask")
	cmd.MarkFlagsMutuallyExclusive("formula", "cask")
	cmd.MarkFlagsMutuallyExclusive("formulae", "casks")

	return cmd
}

func (c *CLI) runInstall(ctx context.Context, names []string, strategy registry.Strategy) error {
	progress := newSpinnerWithContext(ctx, fmt.Sprintf("Resolving %d package(s)...", len(names)))
	progress.Start()
	pkgs, err := c.registries.Resolve(ctx, names, strategy)
	if err != nil {
		progress.StopWithError(err.Error())
		return err
	}
	progress.StopWithSuccess(fmt.Sprintf("Resolved %d package(s)", len(pkgs)))

	return c.fetchAll(ctx, pkgs)
}

// installResult is what one package's install leaves behind once its
// pipeline has finished: the content digest of its payload and the
// directory it was unpacked into.
type installResult struct {
	id     string
	digest string
	dir    string
}

// fetchAll fetches and extracts every resolved package concurrently,
// bounded by the same semaphore the registry uses for resolution, and
// drives a live bubbletea view of per-package progress while it runs.
// Results are printed only after the view exits, since writing to stdout
// directly from a worker goroutine would corrupt the TUI's own rendering.
func (c *CLI) fetchAll(ctx context.Context, pkgs []artifact.Package) error {
	if len(pkgs) == 0 {
		return nil
	}

	names := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		names[i] = pkg.ID()
	}

	msgCh := make(chan tea.Msg, len(pkgs)*4)
	program := tea.NewProgram(newInstallProgressModel(names, msgCh))

	results := make([]installResult, len(pkgs))
	g, gctx := errgroup.WithContext(ctx)
	for i, pkg := range pkgs {
		i, pkg := i, pkg
		g.Go(func() error {
			res, err := c.installOne(gctx, pkg, msgCh)
			results[i] = res
			return err
		})
	}

	go func() {
		defer func() { msgCh <- installDoneMsg{} }()
		_ = g.Wait()
	}()

	if _, err := program.Run(); err != nil {
		return neobrewerr.Wrap(neobrewerr.StreamError, err, "run install progress display")
	}

	installErr := g.Wait()
	for _, res := range results {
		if res.id == "" {
			continue
		}
		printKeyValue(res.id, res.digest)
		if res.dir != "" {
			printFile(res.dir)
		}
	}
	return installErr
}

func (c *CLI) installOne(ctx context.Context, pkg artifact.Package, progress chan<- tea.Msg) (installResult, error) {
	if err := c.appCtx.Semaphore().Acquire(ctx, 1); err != nil {
		return installResult{}, neobrewerr.Wrap(neobrewerr.StreamError, err, "acquire install slot for %s", pkg.ID())
	}
	defer c.appCtx.Semaphore().Release(1)

	url, err := pkg.URL()
	if err != nil {
		progress <- installProgressMsg{name: pkg.ID(), stage: stageDone}
		return installResult{id: pkg.ID()}, nil
	}

	progress <- installProgressMsg{name: pkg.ID(), stage: stageFetching}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return installResult{}, c.failInstall(progress, pkg, neobrewerr.Wrap(neobrewerr.StreamError, err, "build request for %s", pkg.ID()))
	}
	resp, err := c.appCtx.HTTPClient().Do(req)
	if err != nil {
		return installResult{}, c.failInstall(progress, pkg, neobrewerr.Wrap(neobrewerr.StreamError, err, "fetch payload for %s", pkg.ID()))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return installResult{}, c.failInstall(progress, pkg, neobrewerr.New(neobrewerr.StreamError, "fetch payload for %s: HTTP %d", pkg.ID(), resp.StatusCode))
	}

	dest := filepath.Join(c.cellarDir(), pkg.ID())
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return installResult{}, c.failInstall(progress, pkg, neobrewerr.Wrap(neobrewerr.CacheIoError, err, "create cellar directory for %s", pkg.ID()))
	}

	progress <- installProgressMsg{name: pkg.ID(), stage: stageExtracting}
	b := pipeline.NewBuilder(c.appCtx)
	hash := pipeline.FanoutPush[[32]byte](b, operator.NewHasher())
	extracted := pipeline.FanoutPull[string](b, operator.NewExtractor(dest))

	if err := b.Spawn(ctx, resp.Body); err != nil {
		return installResult{}, c.failInstall(progress, pkg, err)
	}

	progress <- installProgressMsg{name: pkg.ID(), stage: stageDone}
	return installResult{id: pkg.ID(), digest: hex.EncodeToString(hash.Value()[:]), dir: extracted.Value()}, nil
}

func (c *CLI) failInstall(progress chan<- tea.Msg, pkg artifact.Package, err error) error {
	progress <- installProgressMsg{name: pkg.ID(), stage: stageFailed, err: err}
	return err
}
