package cli

import (
	"fmt"
	"os"
	"runtime"
)

// allowedPrefixes are the Homebrew-recognized installation prefixes per
// platform. A HOMEBREW_PREFIX outside this set is a fatal configuration
// error: neobrew resolves catalogs the same way regardless of prefix, but
// an unrecognized prefix almost always means the environment is
// misconfigured rather than intentionally customized.
var allowedPrefixes = map[string][]string{
	"darwin": {"/opt/homebrew", "/usr/local"},
	"linux":  {"/home/linuxbrew/.linuxbrew", "/usr/local"},
}

// ValidatePrefix checks HOMEBREW_PREFIX, if set, against the platform's
// recognized installation prefixes. An unset variable is not an error.
func ValidatePrefix() error {
	prefix := os.Getenv("HOMEBREW_PREFIX")
	if prefix == "" {
		return nil
	}
	for _, allowed := range allowedPrefixes[runtime.GOOS] {
		if prefix == allowed {
			return nil
		}
	}
	return fmt.Errorf("HOMEBREW_PREFIX %q is not a recognized prefix for %s", prefix, runtime.GOOS)
}
