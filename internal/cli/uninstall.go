package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
	"github.com/neobrew-cli/neobrew/pkg/registry"
)

func (c *CLI) uninstallCommand() *cobra.Command {
	var formula, cask bool

	cmd := &cobra.Command{
		Use:   "uninstall <name>...",
		Short: "Remove one or more previously fetched packages from the local stage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := registry.ParseStrategy(formula, cask)
			if err != nil {
				return err
			}
			return c.runUninstall(cmd.Context(), args, strategy)
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

// runUninstall resolves names against the catalogs before touching disk:
// resolution both validates that every name is real and expands each one
// into its transitive closure, so uninstalling a package also removes its
// staged dependencies.
func (c *CLI) runUninstall(ctx context.Context, names []string, strategy registry.Strategy) error {
	prog := newProgress(loggerFromContext(ctx))

	pkgs, err := c.registries.Resolve(ctx, names, strategy)
	if err != nil {
		return err
	}
	for _, pkg := range pkgs {
		if err := c.uninstallOne(pkg.ID()); err != nil {
			return err
		}
	}

	prog.done(fmt.Sprintf("Removed %d package(s)", len(pkgs)))
	return nil
}

func (c *CLI) uninstallOne(name string) error {
	dest := filepath.Join(c.cellarDir(), name)
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		printWarning("%s is not staged, nothing to remove", name)
		return nil
	}
	if err := os.RemoveAll(dest); err != nil {
		return neobrewerr.Wrap(neobrewerr.CacheIoError, err, "remove staged contents for %s", name)
	}
	printSuccess("%s", fmt.Sprintf("removed %s", name))
	return nil
}
