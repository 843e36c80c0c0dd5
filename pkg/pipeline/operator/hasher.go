// Package operator provides concrete pipeline.PushOperator and
// pipeline.PullOperator implementations: a streaming SHA-256 hasher, a
// file writer, and a gzip+tar extractor.
package operator

import (
	"crypto/sha256"
	"hash"
)

// Hasher is a PushOperator[[32]byte] that computes the SHA-256 digest of
// every chunk fed to it.
type Hasher struct {
	inner hash.Hash
}

// NewHasher returns a Hasher ready to receive chunks.
func NewHasher() *Hasher {
	return &Hasher{inner: sha256.New()}
}

// Feed folds chunk into the running digest. It never fails.
func (h *Hasher) Feed(chunk []byte) error {
	h.inner.Write(chunk)
	return nil
}

// Flush returns the finalized digest.
func (h *Hasher) Flush() ([32]byte, error) {
	var out [32]byte
	copy(out[:], h.inner.Sum(nil))
	return out, nil
}
