// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"bufio"
	"context"
	encodingcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/connector"
	loglib "github.com/parmahealth/parma/pkg/log"
)

type ReaderConfig struct {
	Path string
	// BatchSize is the number of rows per batch. Defaults to 1000.
	BatchSize int
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// Reader reads a CSV file with a header row in batches. Values are inferred
// per cell: empty fields are null, then integers, floats and strings.
type Reader struct {
	logger    loglib.Logger
	path      string
	batchSize int
	comma     rune
}

type Option func(*Reader)

func NewReader(cfg ReaderConfig, opts ...Option) *Reader {
	r := &Reader{
		logger:    loglib.NewNoopLogger(),
		path:      cfg.Path,
		batchSize: connector.BatchSize(cfg.BatchSize),
		comma:     cfg.Comma,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithReaderLogger(l loglib.Logger) Option {
	return func(r *Reader) {
		r.logger = loglib.WithModule(l, "csv_reader")
	}
}

// Read opens the file and yields its rows in batches. Every call reads the
// file from the start.
func (r *Reader) Read(ctx context.Context) iter.Seq2[*batch.Batch, error] {
	return func(yield func(*batch.Batch, error) bool) {
		f, err := connector.OpenFile(r.path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer f.Close()

		cr := encodingcsv.NewReader(bufio.NewReader(f))
		if r.comma != 0 {
			cr.Comma = r.comma
		}

		header, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.logger.Debug("empty csv file", loglib.Fields{"path": r.path})
				return
			}
			yield(nil, fmt.Errorf("reading csv header: %w", err))
			return
		}
		// the header slice is reused as the batch schema
		header = append([]string(nil), header...)

		rows := make([][]any, 0, r.batchSize)
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			record, err := cr.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				yield(nil, fmt.Errorf("reading csv record: %w", err))
				return
			}

			row := make([]any, len(record))
			for i, field := range record {
				row[i] = batch.Infer(field)
			}
			rows = append(rows, row)

			if len(rows) == r.batchSize {
				if !yield(batch.FromRows(header, rows)) {
					return
				}
				rows = make([][]any, 0, r.batchSize)
			}
		}

		if len(rows) > 0 {
			yield(batch.FromRows(header, rows))
		}
	}
}

func (r *Reader) Close() error {
	return nil
}
