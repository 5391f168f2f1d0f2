// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "string", value: "Alice", want: "Alice"},
		{name: "int", value: 12345, want: "12345"},
		{name: "negative int64", value: int64(-7), want: "-7"},
		{name: "float", value: 12.9, want: "12.9"},
		{name: "integral float", value: 30.0, want: "30"},
		{name: "NaN", value: math.NaN(), want: "NaN"},
		{name: "bool", value: true, want: "true"},
		{name: "bytes", value: []byte("abc"), want: "abc"},
		{name: "json number", value: json.Number("42"), want: "42"},
		{name: "time", value: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), want: "2024-01-02T03:04:05Z"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Format(tc.value))
		})
	}
}

func TestInfer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want any
	}{
		{raw: "", want: nil},
		{raw: "34", want: int64(34)},
		{raw: "-3", want: int64(-3)},
		{raw: "12.5", want: 12.5},
		{raw: "abc", want: "abc"},
		{raw: "NaN", want: "NaN"},
		{raw: "123-45-6789", want: "123-45-6789"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Infer(tc.raw))
		})
	}
}

func TestNormalize_Uint64Overflow(t *testing.T) {
	t.Parallel()

	require.Equal(t, "18446744073709551615", Normalize(uint64(math.MaxUint64)))
	require.Equal(t, int64(7), Normalize(uint64(7)))
}
