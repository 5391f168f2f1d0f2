// SPDX-License-Identifier: Apache-2.0

package batch

// Record is a key to value mapping that remembers key insertion order. The
// zero value is an empty record ready to use.
type Record struct {
	keys   []string
	values map[string]any
}

func NewRecord() *Record {
	return &Record{values: map[string]any{}}
}

// RecordOf builds a record from alternating key/value pairs. It panics on an
// odd number of arguments or a non string key, and is meant for literals.
func RecordOf(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("batch.RecordOf: odd number of arguments")
	}
	r := NewRecord()
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

// Set stores the normalized value under key. Setting an existing key keeps its
// original position.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = map[string]any{}
	}
	if _, found := r.values[key]; !found {
		r.keys = append(r.keys, key)
	}
	r.values[key] = Normalize(value)
}

func (r *Record) Get(key string) (any, bool) {
	v, found := r.values[key]
	return v, found
}

// Keys returns the record keys in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Record) Len() int {
	return len(r.keys)
}

// Project returns the record values for the given keys, in that order. Keys
// missing from the record map to nil.
func (r *Record) Project(keys []string) []any {
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = r.values[k]
	}
	return values
}

// Records returns one record per batch row, keyed by column name.
func (b *Batch) Records() []*Record {
	records := make([]*Record, b.rows)
	for i := range records {
		rec := &Record{
			keys:   b.ColumnNames(),
			values: make(map[string]any, len(b.columns)),
		}
		for _, col := range b.columns {
			rec.values[col.Name] = col.Values[i]
		}
		records[i] = rec
	}
	return records
}
