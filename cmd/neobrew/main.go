package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neobrew-cli/neobrew/internal/cli"
	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

// sysexits-style exit codes (see sysexits.h). neobrew uses the two the
// spec calls out by name: a fixed-format input/usage problem versus an
// internal failure.
const (
	exitConfig   = 78 // EX_CONFIG
	exitSoftware = 70 // EX_SOFTWARE
	exitSignal   = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(exitSignal)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	if err := cli.ValidatePrefix(); err != nil {
		return err
	}

	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// exitCode classifies err as a configuration failure (bad flags, bad
// arguments, anything cobra itself rejects before the core ever runs) or
// a runtime failure (any error the core's neobrewerr taxonomy tagged).
// Everything with a recognized Code is the latter (including a brew that
// cannot be found on PATH, which passthrough reports as a CatalogError);
// everything else — cobra usage errors, flag validation, HOMEBREW_PREFIX
// validation — is the former. A forwarded brew invocation that ran and failed exits with
// brew's own status instead of either sysexits code.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if neobrewerr.GetCode(err) != "" {
		return exitSoftware
	}
	return exitConfig
}
