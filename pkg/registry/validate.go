package registry

import (
	"strings"
	"unicode"

	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

const maxNameLength = 256

// ValidateName rejects names that cannot possibly identify a real formula
// or cask, before any catalog request is made or the name is joined into a
// cache or cellar file path. This is a cheap safety net, not a substitute
// for the catalogs themselves rejecting a name that doesn't exist.
func ValidateName(name string) error {
	if name == "" {
		return neobrewerr.New(neobrewerr.InvalidName, "package name cannot be empty")
	}
	if len(name) > maxNameLength {
		return neobrewerr.New(neobrewerr.InvalidName, "package name %q exceeds %d characters", name, maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return neobrewerr.New(neobrewerr.InvalidName, "package name %q contains control characters", name)
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return neobrewerr.New(neobrewerr.InvalidName, "package name %q contains %q", name, pattern)
		}
	}
	return nil
}
