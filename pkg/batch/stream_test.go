// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Parallel()

	b1 := newTestBatch(t)
	b2 := newTestBatch(t)
	errTest := errors.New("oh noes")

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := Collect(Map(Seq(b1, b2), func(b *Batch) (*Batch, error) {
			calls++
			out := b.Clone()
			out.DropColumn("ssn")
			return out, nil
		}))
		require.NoError(t, err)
		require.Equal(t, 2, calls)
		require.Len(t, got, 2)
		require.Equal(t, []string{"name", "age"}, got[1].ColumnNames())
	})

	t.Run("error - from function stops the sequence", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := Collect(Map(Seq(b1, b2), func(b *Batch) (*Batch, error) {
			calls++
			return nil, errTest
		}))
		require.ErrorIs(t, err, errTest)
		require.Empty(t, got)
		require.Equal(t, 1, calls)
	})

	t.Run("error - from source is propagated", func(t *testing.T) {
		t.Parallel()

		_, err := Collect(Map(ErrSeq(ErrNotFound), func(b *Batch) (*Batch, error) {
			t.Fatal("unexpected call")
			return nil, nil
		}))
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTee(t *testing.T) {
	t.Parallel()

	b1 := newTestBatch(t)
	seen := 0
	got, err := Collect(Tee(Seq(b1, b1), func(*Batch) error {
		seen++
		return nil
	}))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 2, seen)
	require.Same(t, b1, got[0])
}
