package cli

import (
	"os"
	"runtime"
	"testing"
)

func TestValidatePrefixUnsetIsOK(t *testing.T) {
	os.Unsetenv("HOMEBREW_PREFIX")
	if err := ValidatePrefix(); err != nil {
		t.Fatalf("ValidatePrefix() error = %v", err)
	}
}

func TestValidatePrefixRejectsUnknown(t *testing.T) {
	t.Setenv("HOMEBREW_PREFIX", "/not/a/real/prefix")
	if err := ValidatePrefix(); err == nil {
		t.Fatal("expected error for unrecognized prefix")
	}
}

func TestValidatePrefixAcceptsKnown(t *testing.T) {
	allowed, ok := allowedPrefixes[runtime.GOOS]
	if !ok || len(allowed) == 0 {
		t.Skip("no known prefixes for this platform")
	}
	t.Setenv("HOMEBREW_PREFIX", allowed[0])
	if err := ValidatePrefix(); err != nil {
		t.Fatalf("ValidatePrefix() error = %v", err)
	}
}
