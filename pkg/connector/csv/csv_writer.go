// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"bufio"
	"context"
	encodingcsv "encoding/csv"
	"errors"
	"fmt"
	"iter"
	"os"

	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/connector"
	loglib "github.com/parmahealth/parma/pkg/log"
)

type WriterConfig struct {
	Path string
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// Writer writes batches to a CSV file. The header is taken from the first
// batch, and later batches are appended without repeating it. Nothing is
// written, and no file is created, for an empty sequence.
type Writer struct {
	logger loglib.Logger
	path   string
	comma  rune
}

type WriterOption func(*Writer)

func NewWriter(cfg WriterConfig, opts ...WriterOption) *Writer {
	w := &Writer{
		logger: loglib.NewNoopLogger(),
		path:   cfg.Path,
		comma:  cfg.Comma,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func WithWriterLogger(l loglib.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = loglib.WithModule(l, "csv_writer")
	}
}

func (w *Writer) Write(ctx context.Context, batches iter.Seq2[*batch.Batch, error]) (err error) {
	var (
		f   *os.File
		buf *bufio.Writer
		cw  *encodingcsv.Writer
	)
	defer func() {
		if f == nil {
			return
		}
		cw.Flush()
		err = errors.Join(err, cw.Error(), buf.Flush(), f.Close())
	}()

	for b, seqErr := range batches {
		if seqErr != nil {
			return seqErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if f == nil {
			if f, err = connector.CreateFile(w.path); err != nil {
				return err
			}
			buf = bufio.NewWriter(f)
			cw = encodingcsv.NewWriter(buf)
			if w.comma != 0 {
				cw.Comma = w.comma
			}
			if err := cw.Write(b.ColumnNames()); err != nil {
				return fmt.Errorf("writing csv header: %w", err)
			}
		}

		record := make([]string, b.NumColumns())
		for _, row := range b.Rows() {
			for i, v := range row {
				record[i] = batch.Format(v)
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("writing csv record: %w", err)
			}
		}
		w.logger.Trace("batch written", loglib.Fields{loglib.RowsField: b.NumRows()})
	}

	return nil
}

func (w *Writer) Close() error {
	return nil
}
