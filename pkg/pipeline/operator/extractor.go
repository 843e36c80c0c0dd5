package operator

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

// Extractor is a PullOperator[string] that decompresses a gzip-tar
// bottle stream into dir, mirroring Homebrew's bottle pour step. It has
// no standard library equivalent for tar+gzip in the corpus; no
// third-party archive library appears anywhere in the example pack, so
// this leans on archive/tar and compress/gzip directly.
type Extractor struct {
	dir string
}

// NewExtractor returns an Extractor that unpacks into dir.
func NewExtractor(dir string) *Extractor {
	return &Extractor{dir: dir}
}

// FromReader reads a gzip-compressed tar stream from r and extracts it
// under dir, returning dir on success.
func (e *Extractor) FromReader(r io.Reader) (string, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return "", neobrewerr.Wrap(neobrewerr.OperatorError, err, "open gzip stream")
	}
	defer gz.Close()

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", neobrewerr.Wrap(neobrewerr.OperatorError, err, "create %s", e.dir)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return e.dir, nil
		}
		if err != nil {
			return "", neobrewerr.Wrap(neobrewerr.OperatorError, err, "read tar header")
		}
		if err := e.extractOne(tr, hdr); err != nil {
			return "", err
		}
	}
}

func (e *Extractor) extractOne(tr *tar.Reader, hdr *tar.Header) error {
	target := filepath.Join(e.dir, filepath.Clean(hdr.Name))
	if !strings.HasPrefix(target, filepath.Clean(e.dir)+string(os.PathSeparator)) {
		return neobrewerr.New(neobrewerr.OperatorError, "tar entry %q escapes extraction root", hdr.Name)
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, 0o755)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return neobrewerr.Wrap(neobrewerr.OperatorError, err, "create %s", filepath.Dir(target))
		}
		f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
		if err != nil {
			return neobrewerr.Wrap(neobrewerr.OperatorError, err, "create %s", target)
		}
		defer f.Close()
		if _, err := io.Copy(f, tr); err != nil {
			return neobrewerr.Wrap(neobrewerr.OperatorError, err, "write %s", target)
		}
		return nil
	case tar.TypeSymlink:
		return os.Symlink(hdr.Linkname, target)
	default:
		return nil
	}
}
