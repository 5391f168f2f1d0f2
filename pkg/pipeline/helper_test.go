// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"iter"
	"testing"

	"github.com/parmahealth/parma/pkg/batch"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	ReadFn func(ctx context.Context) iter.Seq2[*batch.Batch, error]
}

func (m *mockSource) Read(ctx context.Context) iter.Seq2[*batch.Batch, error] {
	return m.ReadFn(ctx)
}

func (m *mockSource) Close() error {
	return nil
}

type mockSink struct {
	WriteFn func(ctx context.Context, batches iter.Seq2[*batch.Batch, error]) error
	CloseFn func() error
}

func (m *mockSink) Write(ctx context.Context, batches iter.Seq2[*batch.Batch, error]) error {
	return m.WriteFn(ctx, batches)
}

func (m *mockSink) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}

// numberedBatches returns n single row batches holding their index in a
// column named "n".
func numberedBatches(t *testing.T, n int) []*batch.Batch {
	t.Helper()
	batches := make([]*batch.Batch, 0, n)
	for i := range n {
		b, err := batch.FromRows([]string{"n"}, [][]any{{int64(i)}})
		require.NoError(t, err)
		batches = append(batches, b)
	}
	return batches
}

func batchIndex(b *batch.Batch) int64 {
	return b.Row(0)[0].(int64)
}

func indexes(batches []*batch.Batch) []int64 {
	out := make([]int64, 0, len(batches))
	for _, b := range batches {
		out = append(out, batchIndex(b))
	}
	return out
}
