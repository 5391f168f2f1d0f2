// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"testing"

	"github.com/parmahealth/parma/pkg/batch"
	"github.com/stretchr/testify/require"
)

func TestSourceSink(t *testing.T) {
	t.Parallel()

	b1, err := batch.FromRows([]string{"a"}, [][]any{{1}})
	require.NoError(t, err)
	b2, err := batch.FromRows([]string{"a"}, [][]any{{2}})
	require.NoError(t, err)

	src := NewSource(b1, b2)
	sink := NewSink()
	require.NoError(t, sink.Write(context.Background(), src.Read(context.Background())))
	require.Equal(t, []*batch.Batch{b1, b2}, sink.Batches())

	// reading again yields the same batches
	again, err := batch.Collect(src.Read(context.Background()))
	require.NoError(t, err)
	require.Len(t, again, 2)

	require.NoError(t, src.Close())
	require.False(t, sink.IsClosed())
	require.NoError(t, sink.Close())
	require.True(t, sink.IsClosed())
}

func TestSource_Cancelled(t *testing.T) {
	t.Parallel()

	b, err := batch.FromRows([]string{"a"}, [][]any{{1}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = batch.Collect(NewSource(b).Read(ctx))
	require.ErrorIs(t, err, context.Canceled)
}
