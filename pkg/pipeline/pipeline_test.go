package pipeline

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/neobrew-cli/neobrew/pkg/appctx"
	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
	"github.com/neobrew-cli/neobrew/pkg/pipeline/operator"
)

func TestSpawnFansOutToHasherAndWriter(t *testing.T) {
	ctx := appctx.New(t.TempDir(), nil)
	b := NewBuilder(ctx)

	hash := FanoutPush[[32]byte](b, operator.NewHasher())
	path := filepath.Join(t.TempDir(), "out.bin")
	file := FanoutPush[string](b, operator.NewWriter(path))

	if err := b.Spawn(context.Background(), bytes.NewReader([]byte("abcdef"))); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	want := sha256.Sum256([]byte("abcdef"))
	if got := hash.Value(); got != want {
		t.Fatalf("hash = %x, want %x", got, want)
	}
	if got := file.Value(); got != path {
		t.Fatalf("file = %q, want %q", got, path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(body) != "abcdef" {
		t.Fatalf("file contents = %q, want abcdef", body)
	}
}

type failingReader struct {
	chunks [][]byte
	err    error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, r.err
	}
	chunk := r.chunks[0]
	r.chunks = r.chunks[1:]
	n := copy(p, chunk)
	return n, nil
}

func TestSpawnSurfacesSourceErrorAfterPartialEmit(t *testing.T) {
	ctx := appctx.New(t.TempDir(), nil)
	b := NewBuilder(ctx)
	FanoutPush[[32]byte](b, operator.NewHasher())

	boom := errors.New("connection reset")
	src := &failingReader{chunks: [][]byte{[]byte("partial")}, err: boom}

	err := b.Spawn(context.Background(), src)
	if err == nil {
		t.Fatal("expected error")
	}
	if neobrewerr.GetCode(err) != neobrewerr.StreamError {
		t.Fatalf("GetCode() = %v, want StreamError", neobrewerr.GetCode(err))
	}
	if !errors.Is(err, boom) {
		t.Fatalf("error chain does not contain source error: %v", err)
	}
}

func TestSpawnSurfacesOperatorError(t *testing.T) {
	ctx := appctx.New(t.TempDir(), nil)
	b := NewBuilder(ctx)
	FanoutPush[string](b, operator.NewWriter(filepath.Join("/nonexistent-dir-xyz", "out.bin")))

	err := b.Spawn(context.Background(), bytes.NewReader([]byte("data")))
	if err == nil {
		t.Fatal("expected error")
	}
	if neobrewerr.GetCode(err) != neobrewerr.OperatorError {
		t.Fatalf("GetCode() = %v, want OperatorError", neobrewerr.GetCode(err))
	}
}

func TestSpawnWithNoRegistrationsDrainsSource(t *testing.T) {
	ctx := appctx.New(t.TempDir(), nil)
	b := NewBuilder(ctx)
	if err := b.Spawn(context.Background(), bytes.NewReader([]byte("anything"))); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
}

func TestFanoutPullExtractsArchive(t *testing.T) {
	ctx := appctx.New(t.TempDir(), nil)
	b := NewBuilder(ctx)
	dir := t.TempDir()
	out := FanoutPull[string](b, operator.NewExtractor(dir))

	archive := buildTestGzipTar(t, "payload.txt", "hi there")
	if err := b.Spawn(context.Background(), bytes.NewReader(archive)); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if out.Value() != dir {
		t.Fatalf("out = %q, want %q", out.Value(), dir)
	}
	body, err := os.ReadFile(filepath.Join(dir, "payload.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(body) != "hi there" {
		t.Fatalf("contents = %q", body)
	}
}

func buildTestGzipTar(t *testing.T, name, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(body))}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}
	if _, err := tw.Write([]byte(body)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar Close() error = %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip Close() error = %v", err)
	}
	return buf.Bytes()
}
