// SPDX-License-Identifier: Apache-2.0

package jsonl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"os"
	"strings"

	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/connector"
	loglib "github.com/parmahealth/parma/pkg/log"

	"github.com/tidwall/sjson"
)

type WriterConfig struct {
	Path string
}

// Writer writes every batch row as one JSON object line, keys in column
// order. No file is created for an empty sequence.
type Writer struct {
	logger loglib.Logger
	path   string
}

type WriterOption func(*Writer)

func NewWriter(cfg WriterConfig, opts ...WriterOption) *Writer {
	w := &Writer{
		logger: loglib.NewNoopLogger(),
		path:   cfg.Path,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func WithWriterLogger(l loglib.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = loglib.WithModule(l, "jsonl_writer")
	}
}

func (w *Writer) Write(ctx context.Context, batches iter.Seq2[*batch.Batch, error]) (err error) {
	var (
		f   *os.File
		buf *bufio.Writer
	)
	defer func() {
		if f == nil {
			return
		}
		err = errors.Join(err, buf.Flush(), f.Close())
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
		}

		paths := make([]string, b.NumColumns())
		for i, name := range b.ColumnNames() {
			paths[i] = escapePath(name)
		}
		for _, row := range b.Rows() {
			line, err := encodeRow(paths, row)
			if err != nil {
				return err
			}
			if _, err := buf.Write(line); err != nil {
				return err
			}
			if err := buf.WriteByte('\n'); err != nil {
				return err
			}
		}
		w.logger.Trace("batch written", loglib.Fields{loglib.RowsField: b.NumRows()})
	}

	return nil
}

func (w *Writer) Close() error {
	return nil
}

func encodeRow(paths []string, row []any) ([]byte, error) {
	line := []byte("{}")
	for i, v := range row {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v = nil
		}
		var err error
		if line, err = sjson.SetBytes(line, paths[i], v); err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", paths[i], err)
		}
	}
	return line, nil
}

// pathEscaper escapes the characters with a meaning in sjson paths, so that
// column names are always used as literal keys.
var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`:`, `\:`,
)

func escapePath(name string) string {
	return pathEscaper.Replace(name)
}
