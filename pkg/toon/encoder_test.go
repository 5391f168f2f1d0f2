// SPDX-License-Identifier: Apache-2.0

package toon

import (
	"errors"
	"math"
	"testing"

	"github.com/parmahealth/parma/pkg/batch"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	testBatch, err := batch.New(
		batch.Column{Name: "name", Values: []any{"Alice", "Bob"}},
		batch.Column{Name: "age", Values: []any{int64(30), int64(25)}},
	)
	require.NoError(t, err)

	noRows, err := batch.New(batch.Column{Name: "name", Values: []any{}})
	require.NoError(t, err)

	noColumns, err := batch.New()
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   any
		want    string
		wantErr error
	}{
		{
			name:  "ok - batch",
			input: testBatch,
			want:  `{"s":["name","age"],"d":[["Alice",30],["Bob",25]]}`,
		},
		{
			name:  "ok - batch value",
			input: *testBatch,
			want:  `{"s":["name","age"],"d":[["Alice",30],["Bob",25]]}`,
		},
		{
			name: "ok - records",
			input: []*batch.Record{
				batch.RecordOf("name", "Alice", "age", 30),
				batch.RecordOf("name", "Bob", "age", 25),
			},
			want: `{"s":["name","age"],"d":[["Alice",30],["Bob",25]]}`,
		},
		{
			name: "ok - heterogeneous records",
			input: []*batch.Record{
				batch.RecordOf("name", "Alice", "age", 30),
				batch.RecordOf("age", 25, "email", "bob@example.com"),
			},
			want: `{"s":["name","age"],"d":[["Alice",30],[null,25]]}`,
		},
		{
			name: "ok - maps use sorted keys",
			input: []map[string]any{
				{"name": "Alice", "age": 30},
				{"name": "Bob"},
			},
			want: `{"s":["age","name"],"d":[[30,"Alice"],[null,"Bob"]]}`,
		},
		{
			name:  "ok - floats and non finite values",
			input: []*batch.Record{batch.RecordOf("a", 1.5, "b", math.NaN(), "c", math.Inf(1), "d", true)},
			want:  `{"s":["a","b","c","d"],"d":[[1.5,null,null,true]]}`,
		},
		{
			name:  "ok - batch without rows keeps the schema",
			input: noRows,
			want:  `{"s":["name"],"d":[]}`,
		},
		{
			name:  "ok - batch without columns",
			input: noColumns,
			want:  "",
		},
		{
			name:  "ok - empty records",
			input: []*batch.Record{},
			want:  "",
		},
		{
			name:  "ok - empty maps",
			input: []map[string]any{},
			want:  "",
		},
		{
			name:  "ok - nil",
			input: nil,
			want:  "",
		},
		{
			name:    "error - unsupported input",
			input:   "name,age",
			wantErr: ErrUnsupportedInput,
		},
		{
			name:    "error - unsupported slice",
			input:   []string{"name"},
			wantErr: ErrUnsupportedInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Encode(tc.input)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEncode_UnsupportedInputError(t *testing.T) {
	t.Parallel()

	_, err := Encode(42)
	var inputErr *UnsupportedInputError
	require.True(t, errors.As(err, &inputErr))
	require.Equal(t, "int", inputErr.Type)
}

func TestEncode_ValueRecords(t *testing.T) {
	t.Parallel()

	records := make([]batch.Record, 2)
	records[0].Set("name", "Alice")
	records[0].Set("age", 30)
	records[1].Set("age", 25)

	got, err := Encode(records)
	require.NoError(t, err)
	require.Equal(t, `{"s":["name","age"],"d":[["Alice",30],[null,25]]}`, got)
}
