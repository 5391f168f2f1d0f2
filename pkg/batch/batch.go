// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"fmt"
	"slices"
)

// Column is a named, ordered sequence of scalar values.
type Column struct {
	Name   string
	Values []any
}

// Batch is a bounded table of rows processed as one unit. All columns have
// the same length and column order is significant.
type Batch struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New returns a batch with the given columns. The column value slices are
// not copied.
func New(columns ...Column) (*Batch, error) {
	b := &Batch{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrInvalidBatch, i)
		}
		if _, found := b.index[col.Name]; found {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidBatch, col.Name)
		}
		if i == 0 {
			b.rows = len(col.Values)
		}
		if len(col.Values) != b.rows {
			return nil, fmt.Errorf("%w: column %q has %d values, expected %d", ErrInvalidBatch, col.Name, len(col.Values), b.rows)
		}
		b.index[col.Name] = len(b.columns)
		b.columns = append(b.columns, col)
	}
	return b, nil
}

// FromRows builds a batch from a schema and row-major values. Every row must
// be positionally aligned to the schema.
func FromRows(schema []string, rows [][]any) (*Batch, error) {
	columns := make([]Column, len(schema))
	for i, name := range schema {
		columns[i] = Column{Name: name, Values: make([]any, len(rows))}
	}
	for r, row := range rows {
		if len(row) != len(schema) {
			return nil, fmt.Errorf("%w: row %d has %d values, schema has %d fields", ErrInvalidBatch, r, len(row), len(schema))
		}
		for c, v := range row {
			columns[c].Values[r] = Normalize(v)
		}
	}
	return New(columns...)
}

// FromRecords builds a batch from ordered records. The schema is taken from
// the first record, and keys missing from later records become nil values.
// Keys that are not part of the first record are ignored.
func FromRecords(records []*Record) (*Batch, error) {
	if len(records) == 0 {
		return New()
	}
	schema := records[0].Keys()
	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = rec.Project(schema)
	}
	return FromRows(schema, rows)
}

func (b *Batch) NumRows() int {
	return b.rows
}

func (b *Batch) NumColumns() int {
	return len(b.columns)
}

func (b *Batch) IsEmpty() bool {
	return b == nil || len(b.columns) == 0
}

// ColumnNames returns the column names in batch order.
func (b *Batch) ColumnNames() []string {
	names := make([]string, len(b.columns))
	for i, col := range b.columns {
		names[i] = col.Name
	}
	return names
}

// Columns returns the batch columns. The returned slice must not be modified.
func (b *Batch) Columns() []Column {
	return b.columns
}

func (b *Batch) HasColumn(name string) bool {
	_, found := b.index[name]
	return found
}

// Column returns the column with the given name. The values slice is shared
// with the batch.
func (b *Batch) Column(name string) (Column, bool) {
	i, found := b.index[name]
	if !found {
		return Column{}, false
	}
	return b.columns[i], true
}

// DropColumn removes the named column. It returns false if the column is not
// part of the batch. The row count is kept even when the last column is
// dropped.
func (b *Batch) DropColumn(name string) bool {
	i, found := b.index[name]
	if !found {
		return false
	}
	b.columns = slices.Delete(b.columns, i, i+1)
	delete(b.index, name)
	for j := i; j < len(b.columns); j++ {
		b.index[b.columns[j].Name] = j
	}
	return true
}

// ReplaceColumn swaps the values of the named column for the ones on input.
// The existing values slice is left untouched.
func (b *Batch) ReplaceColumn(name string, values []any) error {
	i, found := b.index[name]
	if !found {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	if len(values) != b.rows {
		return fmt.Errorf("%w: column %q replacement has %d values, expected %d", ErrInvalidBatch, name, len(values), b.rows)
	}
	b.columns[i].Values = values
	return nil
}

// Clone returns a deep copy of the batch. Scalar values are immutable, so
// copying the value slices is enough for the copy to be independent.
func (b *Batch) Clone() *Batch {
	clone := &Batch{
		columns: make([]Column, len(b.columns)),
		index:   make(map[string]int, len(b.columns)),
		rows:    b.rows,
	}
	for i, col := range b.columns {
		clone.columns[i] = Column{Name: col.Name, Values: slices.Clone(col.Values)}
		clone.index[col.Name] = i
	}
	return clone
}

// Row returns the values of row i across columns, in column order.
func (b *Batch) Row(i int) []any {
	row := make([]any, len(b.columns))
	for c, col := range b.columns {
		row[c] = col.Values[i]
	}
	return row
}

// Rows returns the row-major transposition of the batch.
func (b *Batch) Rows() [][]any {
	rows := make([][]any, b.rows)
	for i := range rows {
		rows[i] = b.Row(i)
	}
	return rows
}

// Equal reports whether both batches have the same columns, in the same
// order, holding the same values.
func (b *Batch) Equal(other *Batch) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.rows != other.rows || len(b.columns) != len(other.columns) {
		return false
	}
	for i, col := range b.columns {
		o := other.columns[i]
		if col.Name != o.Name || !slices.Equal(col.Values, o.Values) {
			return false
		}
	}
	return true
}
