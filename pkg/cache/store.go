// Package cache persists catalog responses to the on-disk content cache
// and provides a retry helper for transient network failures.
//
// Persistence is write-only from the registry's point of view: per the
// resolution model, a name is never resolved by reading this cache back —
// every resolve issues a fetch. The store exists so an operator can later
// inspect exactly what a resolution wrote to disk.
package cache

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

// Kind names the catalog a cached document belongs to.
type Kind string

const (
	Formula Kind = "formula"
	Cask    Kind = "cask"
)

// Store is the fixed-layout JSON content cache rooted at a directory:
// <dir>/api/{formula,cask}/<name>.json.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. dir is not created until the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the root cache directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the on-disk path a document of the given kind and name
// would be written to.
func (s *Store) Path(kind Kind, name string) string {
	return filepath.Join(s.dir, "api", string(kind), name+".json")
}

// Put writes body to the cache path for (kind, name), byte-identical to
// what was passed in. The write is atomic: body lands in a uniquely named
// temp file in the same directory, then is renamed into place, so a
// concurrent reader never observes a partially written file.
func (s *Store) Put(kind Kind, name string, body []byte) error {
	path := s.Path(kind, name)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return neobrewerr.Wrap(neobrewerr.CacheIoError, err, "create cache directory %s", dir)
	}

	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return neobrewerr.Wrap(neobrewerr.CacheIoError, err, "write cache temp file for %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return neobrewerr.Wrap(neobrewerr.CacheIoError, err, "finalize cache file %s", path)
	}
	return nil
}

// Read returns the raw bytes last written for (kind, name). It is used by
// the CLI's cache inspection command, never by resolution itself.
func (s *Store) Read(kind Kind, name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(kind, name))
	if err != nil {
		return nil, neobrewerr.Wrap(neobrewerr.CacheIoError, err, "read cache file for %s %q", kind, name)
	}
	return data, nil
}

// Clear removes the entire cache tree.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return neobrewerr.Wrap(neobrewerr.CacheIoError, err, "clear cache directory %s", s.dir)
	}
	return nil
}
