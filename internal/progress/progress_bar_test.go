// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRowsBar(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	bar := NewRowsBar("anonymizing", WithWriter(&out))

	require.NoError(t, bar.Add(10))
	require.NoError(t, bar.Add64(5))
	require.NoError(t, bar.Close())

	require.Equal(t, int64(15), bar.State().CurrentNum)
	require.Contains(t, out.String(), "anonymizing")
}
