// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/parmahealth/parma/pkg/batch"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReader_Read(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("col1,col2\n")
	for i := range 10 {
		fmt.Fprintf(&sb, "%d,%d\n", i, i+10)
	}
	path := writeTestFile(t, sb.String())

	r := NewReader(ReaderConfig{Path: path, BatchSize: 4})
	batches, err := batch.Collect(r.Read(context.Background()))
	require.NoError(t, err)
	require.Len(t, batches, 3)

	sizes := []int{}
	var rows [][]any
	for _, b := range batches {
		require.Equal(t, []string{"col1", "col2"}, b.ColumnNames())
		sizes = append(sizes, b.NumRows())
		rows = append(rows, b.Rows()...)
	}
	require.Equal(t, []int{4, 4, 2}, sizes)
	for i, row := range rows {
		require.Equal(t, []any{int64(i), int64(i + 10)}, row)
	}

	// reading again starts over
	again, err := batch.Collect(r.Read(context.Background()))
	require.NoError(t, err)
	require.Len(t, again, 3)
	require.NoError(t, r.Close())
}

func TestReader_Read_Values(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "name,age,score,note\nAlice,30,1.5,\n\"Bob, Jr\",,2,\"multi\nline\"\n")

	batches, err := batch.Collect(NewReader(ReaderConfig{Path: path}).Read(context.Background()))
	require.NoError(t, err)
	require.Len(t, batches, 1)

	want := [][]any{
		{"Alice", int64(30), 1.5, nil},
		{"Bob, Jr", nil, int64(2), "multi\nline"},
	}
	if diff := cmp.Diff(want, batches[0].Rows()); diff != "" {
		t.Errorf("got different rows (-want +got): %s", diff)
	}
}

func TestReader_Read_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		ctx     func() context.Context
		wantErr error
		wantAny bool
	}{
		{
			name: "error - file not found",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nonexistent.csv")
			},
			wantErr: batch.ErrNotFound,
		},
		{
			name: "error - ragged row",
			path: func(t *testing.T) string {
				return writeTestFile(t, "a,b\n1,2\n3\n")
			},
			wantAny: true,
		},
		{
			name: "error - context cancelled",
			path: func(t *testing.T) string {
				return writeTestFile(t, "a,b\n1,2\n")
			},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			if tc.ctx != nil {
				ctx = tc.ctx()
			}

			_, err := batch.Collect(NewReader(ReaderConfig{Path: tc.path(t)}).Read(ctx))
			if tc.wantAny {
				require.Error(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestReader_Read_EmptyFile(t *testing.T) {
	t.Parallel()

	batches, err := batch.Collect(NewReader(ReaderConfig{Path: writeTestFile(t, "")}).Read(context.Background()))
	require.NoError(t, err)
	require.Empty(t, batches)

	batches, err = batch.Collect(NewReader(ReaderConfig{Path: writeTestFile(t, "a,b\n")}).Read(context.Background()))
	require.NoError(t, err)
	require.Empty(t, batches)
}

func TestReader_Read_StopEarly(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "a\n1\n2\n3\n")
	count := 0
	for b, err := range NewReader(ReaderConfig{Path: path, BatchSize: 1}).Read(context.Background()) {
		require.NoError(t, err)
		require.Equal(t, 1, b.NumRows())
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	b1, err := batch.FromRows([]string{"col1", "col2"}, [][]any{{0, 10}, {1, 11}})
	require.NoError(t, err)
	b2, err := batch.FromRows([]string{"col1", "col2"}, [][]any{{2, 12}, {3, nil}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "dir", "output.csv")
	w := NewWriter(WriterConfig{Path: path})
	require.NoError(t, w.Write(context.Background(), batch.Seq(b1, b2)))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "col1,col2\n0,10\n1,11\n2,12\n3,\n", string(content))

	// writing again truncates the previous output
	require.NoError(t, w.Write(context.Background(), batch.Seq(b1)))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "col1,col2\n0,10\n1,11\n", string(content))
}

func TestWriter_Write_Empty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "output.csv")
	require.NoError(t, NewWriter(WriterConfig{Path: path}).Write(context.Background(), batch.Seq()))

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriter_Write_SequenceError(t *testing.T) {
	t.Parallel()

	errTest := fmt.Errorf("oh noes")
	path := filepath.Join(t.TempDir(), "output.csv")
	err := NewWriter(WriterConfig{Path: path}).Write(context.Background(), batch.ErrSeq(errTest))
	require.ErrorIs(t, err, errTest)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	in, err := batch.FromRows([]string{"name", "age", "score"}, [][]any{
		{"Alice", 30, 1.5},
		{"Bob", nil, -2},
		{"with,comma", 0, 0.25},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "roundtrip.tsv")
	require.NoError(t, NewWriter(WriterConfig{Path: path, Comma: '\t'}).Write(context.Background(), batch.Seq(in)))

	out, err := batch.Collect(NewReader(ReaderConfig{Path: path, Comma: '\t'}).Read(context.Background()))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.True(t, in.Equal(out[0]), "got %v", out[0].Rows())
}
