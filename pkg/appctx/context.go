// Package appctx holds the process-wide Context: the HTTP client, the
// global concurrency bound, and the cache directory shared by the registry
// and pipeline packages.
//
// A Context is cheap to construct (New does no I/O) and every expensive or
// shared resource it owns is built lazily, once, on first use.
package appctx

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"
)

const (
	// maxConcurrency caps how many catalog resolutions or package installs
	// run at once, regardless of how many CPUs the host reports.
	maxConcurrency = 16

	// bufferMultiplier sizes pipeline channel capacity relative to the
	// concurrency limit, so a slow consumer can fall behind a burst of
	// fast producers without immediately blocking them.
	bufferMultiplier = 16

	httpTimeout = 30 * time.Second
)

// Context is the shared, lazily-initialized runtime environment. The zero
// value is not usable; construct one with New.
type Context struct {
	cacheDir string
	logger   *log.Logger

	clientOnce sync.Once
	client     *http.Client

	limitOnce sync.Once
	limit     int

	capOnce sync.Once
	cap     int

	semOnce sync.Once
	sem     *semaphore.Weighted
}

// New creates a Context rooted at cacheDir, logging through logger. If
// cacheDir is empty, DefaultCacheDir is used.
func New(cacheDir string, logger *log.Logger) *Context {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Context{cacheDir: cacheDir, logger: logger}
}

// appIdentifier is the reverse-DNS application directory name used under
// the user's cache root, matching the layout macOS and Homebrew tooling
// conventionally use.
const appIdentifier = "sh.neobrew.cli"

// DefaultCacheDir returns <user cache dir>/sh.neobrew.cli, falling back
// to a temp directory if the user's cache directory cannot be determined.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, appIdentifier)
	}
	return filepath.Join(os.TempDir(), appIdentifier)
}

// CacheDir returns the root directory under which catalog responses are
// persisted.
func (c *Context) CacheDir() string { return c.cacheDir }

// Logger returns the structured logger attached to this Context.
func (c *Context) Logger() *log.Logger { return c.logger }

// HTTPClient returns the shared HTTP client, constructing it on first
// call.
func (c *Context) HTTPClient() *http.Client {
	c.clientOnce.Do(func() {
		c.client = &http.Client{Timeout: httpTimeout}
	})
	return c.client
}

// ConcurrencyLimit returns the maximum number of concurrent catalog
// resolutions or package installs: min(GOMAXPROCS, 16).
func (c *Context) ConcurrencyLimit() int {
	c.limitOnce.Do(func() {
		n := runtime.GOMAXPROCS(0)
		if n > maxConcurrency {
			n = maxConcurrency
		}
		if n < 1 {
			n = 1
		}
		c.limit = n
	})
	return c.limit
}

// ChannelCapacity returns the buffered channel size pipeline operators use:
// ConcurrencyLimit * 16.
func (c *Context) ChannelCapacity() int {
	c.capOnce.Do(func() {
		c.cap = c.ConcurrencyLimit() * bufferMultiplier
	})
	return c.cap
}

// Semaphore returns the single weighted semaphore, sized to
// ConcurrencyLimit, that the registry's concurrent fan-outs and the CLI's
// concurrent installs acquire from. The pipeline's operator workers do not
// acquire it. Sharing one semaphore across these callers is what makes the
// concurrency bound global rather than per-component.
func (c *Context) Semaphore() *semaphore.Weighted {
	c.semOnce.Do(func() {
		c.sem = semaphore.NewWeighted(int64(c.ConcurrencyLimit()))
	})
	return c.sem
}
