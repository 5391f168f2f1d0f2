// SPDX-License-Identifier: Apache-2.0

package connector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parmahealth/parma/pkg/batch"
	"github.com/stretchr/testify/require"
)

func TestBatchSize(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultBatchSize, BatchSize(0))
	require.Equal(t, DefaultBatchSize, BatchSize(-1))
	require.Equal(t, 4, BatchSize(4))
}

func TestOpenFile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, batch.ErrNotFound)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreateFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	f, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
}
