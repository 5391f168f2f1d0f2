// SPDX-License-Identifier: Apache-2.0

package primitives

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var hexDigestRegexp = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestDigest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		salt  string
		want  any
	}{
		{
			name:  "ok - string",
			value: "test_user",
			salt:  "salty",
			// sha256("salty|test_user")
			want: "e9c4920213f42ef1863c3c452365d251654a0eec0c8b83d333d5abef06eaa85c",
		},
		{
			name:  "ok - nil is not hashed",
			value: nil,
			salt:  "salty",
			want:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Digest(tc.value, tc.salt)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDigest_KnownValue(t *testing.T) {
	t.Parallel()

	// printf 'default_salt|Alice' | sha256sum
	got := Digest("Alice", DefaultSalt)
	require.Equal(t, "38eef80570a702795727f96bc84f448f2ff2c7cf5c7d549ac9a477f59018bf89", got)
	require.Len(t, got, DigestLength)
}

func TestDigest_Aliases(t *testing.T) {
	t.Parallel()

	h1 := Digest("test_value", "test_salt")
	h2 := Mask("test_value", "test_salt")
	h3 := Pseudonymize("test_value", "test_salt")
	require.Equal(t, h1, h2)
	require.Equal(t, h2, h3)
}

func TestDigest_SaltBoundary(t *testing.T) {
	t.Parallel()

	require.NotEqual(t, Digest("lt:x", "sa"), Digest("t:x", "sal"))
}

func TestDigest_NumbersUseCanonicalForm(t *testing.T) {
	t.Parallel()

	require.Equal(t, Digest("12345", "salty"), Digest(12345, "salty"))
	require.Equal(t, Digest("12345", "salty"), Digest(int64(12345), "salty"))
	require.Equal(t, Digest("12.5", "salty"), Digest(12.5, "salty"))
	require.Equal(t, Digest("30", "salty"), Digest(30.0, "salty"))
}

func TestDigest_Deterministic(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		value := rapid.String().Draw(t, "value")
		salt := rapid.String().Draw(t, "salt")

		d1 := Digest(value, salt)
		d2 := Digest(value, salt)
		if d1 != d2 {
			t.Fatalf("digest is not deterministic: %v != %v", d1, d2)
		}
		if !hexDigestRegexp.MatchString(d1.(string)) {
			t.Fatalf("digest %q is not 64 lowercase hex characters", d1)
		}
	})
}

func TestDigest_DifferentSalts(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		value := rapid.OneOf(
			rapid.Map(rapid.String(), func(s string) any { return s }),
			rapid.Map(rapid.Int64(), func(i int64) any { return i }),
		).Draw(t, "value")
		s1 := rapid.String().Draw(t, "salt1")
		s2 := rapid.String().Filter(func(s string) bool { return s != s1 }).Draw(t, "salt2")

		if Digest(value, s1) == Digest(value, s2) {
			t.Fatalf("digest of %v collides for salts %q and %q", value, s1, s2)
		}
	})
}

func TestDigest_RehashingDigest(t *testing.T) {
	t.Parallel()

	once := Digest("user1", "salty")
	twice := Digest(once, "salty")
	require.Regexp(t, hexDigestRegexp, twice)
	require.NotEqual(t, once, twice)
}
