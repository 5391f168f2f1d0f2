// SPDX-License-Identifier: Apache-2.0

package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"

	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/connector"
	loglib "github.com/parmahealth/parma/pkg/log"

	"github.com/tidwall/gjson"
)

// maxLineSize bounds the size of a single JSON line.
const maxLineSize = 64 * 1024 * 1024

var ErrInvalidRecord = errors.New("invalid json record")

type ReaderConfig struct {
	Path string
	// BatchSize is the number of records per batch. Defaults to 1000.
	BatchSize int
}

// Reader reads newline delimited JSON objects in batches. The batch schema
// is the key order of the first record in the batch. Nested objects and
// arrays are kept as their raw JSON text.
type Reader struct {
	logger    loglib.Logger
	path      string
	batchSize int
}

type Option func(*Reader)

func NewReader(cfg ReaderConfig, opts ...Option) *Reader {
	r := &Reader{
		logger:    loglib.NewNoopLogger(),
		path:      cfg.Path,
		batchSize: connector.BatchSize(cfg.BatchSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithReaderLogger(l loglib.Logger) Option {
	return func(r *Reader) {
		r.logger = loglib.WithModule(l, "jsonl_reader")
	}
}

func (r *Reader) Read(ctx context.Context) iter.Seq2[*batch.Batch, error] {
	return func(yield func(*batch.Batch, error) bool) {
		f, err := connector.OpenFile(r.path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		records := make([]*batch.Record, 0, r.batchSize)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			rec, err := parseRecord(line)
			if err != nil {
				yield(nil, fmt.Errorf("line %d: %w", lineNum, err))
				return
			}
			records = append(records, rec)

			if len(records) == r.batchSize {
				if !yield(batch.FromRecords(records)) {
					return
				}
				records = make([]*batch.Record, 0, r.batchSize)
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("reading jsonl file: %w", err))
			return
		}

		if len(records) > 0 {
			yield(batch.FromRecords(records))
		}
	}
}

func (r *Reader) Close() error {
	return nil
}

func parseRecord(line []byte) (*batch.Record, error) {
	if !gjson.ValidBytes(line) {
		return nil, ErrInvalidRecord
	}
	obj := gjson.ParseBytes(line)
	if !obj.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidRecord)
	}

	rec := batch.NewRecord()
	obj.ForEach(func(key, value gjson.Result) bool {
		rec.Set(key.String(), toValue(value))
		return true
	})
	return rec, nil
}

func toValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.String:
		return v.String()
	case gjson.Number:
		if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return i
		}
		return v.Float()
	default:
		return v.Raw
	}
}
