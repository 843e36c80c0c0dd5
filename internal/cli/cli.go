// Package cli implements the neobrew command-line interface.
//
// This package wires cobra subcommands to the registry and pipeline
// packages: install and uninstall resolve and act on formula/cask
// dependency trees, cache exposes the on-disk content cache, and every
// other subcommand is forwarded to a sibling brew executable. Logging
// uses charmbracelet/log and is attached to the command context so every
// subcommand shares one configured logger.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/neobrew-cli/neobrew/internal/cliconfig"
	"github.com/neobrew-cli/neobrew/pkg/appctx"
	"github.com/neobrew-cli/neobrew/pkg/buildinfo"
	"github.com/neobrew-cli/neobrew/pkg/cache"
	"github.com/neobrew-cli/neobrew/pkg/registry"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	appCtx     *appctx.Context
	store      *cache.Store
	registries *registry.Registries
}

// New creates a new CLI instance with a default logger writing to w at
// level. Configuration is loaded from the default config path if
// present; a missing or unreadable config file is not fatal here, since
// its only applied field, cache_dir, is an optional override.
func New(w io.Writer, level log.Level) *CLI {
	logger := newLogger(w, level)

	cfg, _ := cliconfig.Load(cliconfig.DefaultPath())

	appCtx := appctx.New(cfg.CacheDir, logger)
	store := cache.NewStore(appCtx.CacheDir())

	return &CLI{
		Logger:     logger,
		appCtx:     appCtx,
		store:      store,
		registries: registry.New(appCtx, store),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var colorMode string

	root := &cobra.Command{
		Use:          "neobrew",
		Short:        "neobrew resolves and installs Homebrew formulae and casks",
		Long:         `neobrew is a concurrent, caching front end for the Homebrew formula and cask catalogs, with passthrough to brew for everything else.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		// Args is only consulted when no registered subcommand matches
		// args[0]; that is exactly when the command should be forwarded
		// to brew rather than rejected as unknown.
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyColorMode(colorMode); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return passthrough(cmd.Context(), args)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output: auto, always, or never")

	root.AddCommand(c.installCommand())
	root.AddCommand(c.uninstallCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
