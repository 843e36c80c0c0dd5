package operator

import (
	"bufio"
	"os"

	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

// Writer is a PushOperator[string] that buffers chunks to a file, opened
// lazily on the first Feed, or by Flush when no chunk arrived (the file is
// then empty). Flush returns the written path.
type Writer struct {
	path string
	file *os.File
	buf  *bufio.Writer
}

// NewWriter returns a Writer targeting path. The file is not created
// until the first chunk arrives or Flush is called.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) sink() (*bufio.Writer, error) {
	if w.buf == nil {
		f, err := os.Create(w.path)
		if err != nil {
			return nil, neobrewerr.Wrap(neobrewerr.OperatorError, err, "create %s", w.path)
		}
		w.file = f
		w.buf = bufio.NewWriter(f)
	}
	return w.buf, nil
}

// Feed appends chunk to the destination file.
func (w *Writer) Feed(chunk []byte) error {
	buf, err := w.sink()
	if err != nil {
		return err
	}
	if _, err := buf.Write(chunk); err != nil {
		return neobrewerr.Wrap(neobrewerr.OperatorError, err, "write %s", w.path)
	}
	return nil
}

// Flush flushes and closes the destination file, returning its path. If
// no chunk was ever fed, the file is created empty so Flush's contract
// (a path that exists on disk) always holds.
func (w *Writer) Flush() (string, error) {
	buf, err := w.sink()
	if err != nil {
		return "", err
	}
	if err := buf.Flush(); err != nil {
		return "", neobrewerr.Wrap(neobrewerr.OperatorError, err, "flush %s", w.path)
	}
	if err := w.file.Close(); err != nil {
		return "", neobrewerr.Wrap(neobrewerr.OperatorError, err, "close %s", w.path)
	}
	return w.path, nil
}
