package cli

import (
	"context"
	"os"
	"os/exec"

	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

// passthroughEnv lists the HOMEBREW_* flags forwarded verbatim to a
// sibling brew executable, mirroring whatever the parent neobrew process
// was invoked with.
var passthroughEnv = []string{
	"HOMEBREW_NO_ANALYTICS",
	"HOMEBREW_NO_AUTOREMOVE",
	"HOMEBREW_NO_AUTO_UPDATE",
	"HOMEBREW_NO_ENV_HINTS",
	"HOMEBREW_NO_INSTALLED_DEPENDENTS_CHECK",
	"HOMEBREW_NO_INSTALL_CLEANUP",
	"HOMEBREW_NO_INSTALL_UPGRADE",
	"HOMEBREW_VERBOSE",
	"HOMEBREW_COLOR",
	"HOMEBREW_NO_COLOR",
}

// passthrough forwards args verbatim to a sibling brew executable,
// inheriting the process environment plus the documented HOMEBREW_*
// passthrough flags. Root falls back to this when the first argument
// does not name a neobrew subcommand.
func passthrough(ctx context.Context, args []string) error {
	path, err := exec.LookPath("brew")
	if err != nil {
		return neobrewerr.Wrap(neobrewerr.CatalogError, err, "brew not found on PATH")
	}

	loggerFromContext(ctx).Debugf("forwarding to brew: %v", args)

	sub := exec.CommandContext(ctx, path, args...)
	sub.Stdin = os.Stdin
	sub.Stdout = os.Stdout
	sub.Stderr = os.Stderr
	sub.Env = os.Environ()
	for _, name := range passthroughEnv {
		if v, ok := os.LookupEnv(name); ok {
			sub.Env = append(sub.Env, name+"="+v)
		}
	}
	return sub.Run()
}
