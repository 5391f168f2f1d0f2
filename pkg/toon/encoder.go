// SPDX-License-Identifier: Apache-2.0

// Package toon implements the compact schema plus rows encoding. The schema is
// emitted once and each row is an array of values aligned to it:
//
//	{"s":["name","age"],"d":[["Alice",30],["Bob",25]]}
package toon

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/parmahealth/parma/internal/json"
	"github.com/parmahealth/parma/pkg/batch"
)

type compactRecord struct {
	Schema []string `json:"s"`
	Rows   [][]any  `json:"d"`
}

// Encode returns the compact encoding of a batch or a sequence of records.
// Empty input encodes to the empty string. The schema of a []map[string]any
// input is the sorted keys of its first map; use []*batch.Record or
// []batch.Record to keep the first record's key order instead.
func Encode(input any) (string, error) {
	var rec *compactRecord
	switch v := input.(type) {
	case nil:
		return "", nil
	case *batch.Batch:
		if v == nil {
			return "", nil
		}
		rec = fromBatch(v)
	case batch.Batch:
		rec = fromBatch(&v)
	case []*batch.Record:
		rec = fromRecords(v)
	case []batch.Record:
		records := make([]*batch.Record, len(v))
		for i := range v {
			records[i] = &v[i]
		}
		rec = fromRecords(records)
	case []map[string]any:
		rec = fromMaps(v)
	default:
		return "", &UnsupportedInputError{Type: fmt.Sprintf("%T", input)}
	}

	if rec == nil {
		return "", nil
	}

	out, err := json.MarshalString(rec)
	if err != nil {
		return "", fmt.Errorf("encoding compact record: %w", err)
	}
	return out, nil
}

func fromBatch(b *batch.Batch) *compactRecord {
	if b.NumColumns() == 0 {
		return nil
	}
	rows := b.Rows()
	for _, row := range rows {
		sanitize(row)
	}
	return &compactRecord{
		Schema: b.ColumnNames(),
		Rows:   rows,
	}
}

func fromRecords(records []*batch.Record) *compactRecord {
	if len(records) == 0 {
		return nil
	}
	schema := records[0].Keys()
	rows := make([][]any, len(records))
	for i, r := range records {
		if r == nil {
			rows[i] = make([]any, len(schema))
			continue
		}
		rows[i] = sanitize(r.Project(schema))
	}
	return &compactRecord{Schema: schema, Rows: rows}
}

// fromMaps takes the schema from the first map in sorted key order, since Go
// maps don't keep insertion order.
func fromMaps(records []map[string]any) *compactRecord {
	if len(records) == 0 {
		return nil
	}
	schema := slices.Sorted(maps.Keys(records[0]))
	rows := make([][]any, len(records))
	for i, r := range records {
		row := make([]any, len(schema))
		for j, key := range schema {
			row[j] = batch.Normalize(r[key])
		}
		rows[i] = sanitize(row)
	}
	return &compactRecord{Schema: schema, Rows: rows}
}

// sanitize replaces the float values JSON can't represent with null.
func sanitize(row []any) []any {
	for i, v := range row {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			row[i] = nil
		}
	}
	return row
}
