// SPDX-License-Identifier: Apache-2.0

package compact

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/connector"
	loglib "github.com/parmahealth/parma/pkg/log"
	"github.com/parmahealth/parma/pkg/toon"
)

// Writer writes the compact encoding of every batch as one line. Batches
// that encode to the empty string are skipped.
type Writer struct {
	logger loglib.Logger
	path   string
	out    io.Writer
}

type Option func(*Writer)

// NewFileWriter returns a writer to the file on the given path. The file and
// its parent directories are created with the first non empty batch.
func NewFileWriter(path string, opts ...Option) *Writer {
	w := &Writer{
		logger: loglib.NewNoopLogger(),
		path:   path,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewWriter returns a writer to an already open destination, such as stdout.
// The destination is not closed by the writer.
func NewWriter(out io.Writer, opts ...Option) *Writer {
	w := NewFileWriter("", opts...)
	w.out = out
	return w
}

func WithLogger(l loglib.Logger) Option {
	return func(w *Writer) {
		w.logger = loglib.WithModule(l, "compact_writer")
	}
}

func (w *Writer) Write(ctx context.Context, batches iter.Seq2[*batch.Batch, error]) (err error) {
	var (
		f   *os.File
		buf *bufio.Writer
	)
	defer func() {
		if buf != nil {
			err = errors.Join(err, buf.Flush())
		}
		if f != nil {
			err = errors.Join(err, f.Close())
		}
	}()

	for b, seqErr := range batches {
		if seqErr != nil {
			return seqErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		encoded, err := toon.Encode(b)
		if err != nil {
			return err
		}
		if encoded == "" {
			continue
		}

		if buf == nil {
			out := w.out
			if out == nil {
				if f, err = connector.CreateFile(w.path); err != nil {
					return err
				}
				out = f
			}
			buf = bufio.NewWriter(out)
		}

		if _, err := fmt.Fprintln(buf, encoded); err != nil {
			return fmt.Errorf("writing compact record: %w", err)
		}
		w.logger.Trace("batch encoded", loglib.Fields{loglib.RowsField: b.NumRows(), "bytes": len(encoded)})
	}

	return nil
}

func (w *Writer) Close() error {
	return nil
}
