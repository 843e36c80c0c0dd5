package operator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriterFeedAndFlush(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	w := NewWriter(path)

	for _, chunk := range [][]byte{[]byte("hello "), []byte("world")} {
		if err := w.Feed(chunk); err != nil {
			t.Fatalf("Feed() error = %v", err)
		}
	}
	got, err := w.Flush()
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got != path {
		t.Fatalf("Flush() = %q, want %q", got, path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(body) != "hello world" {
		t.Fatalf("file contents = %q, want %q", body, "hello world")
	}
}

func TestWriterFlushWithoutFeedCreatesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bin")
	w := NewWriter(path)

	if _, err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("size = %d, want 0", info.Size())
	}
}
