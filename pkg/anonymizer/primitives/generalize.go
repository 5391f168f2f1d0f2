// SPDX-License-Identifier: Apache-2.0

package primitives

import (
	"errors"
	"math"
	"math/big"
	"strings"

	"github.com/parmahealth/parma/pkg/batch"
)

const DefaultBucketSize = 10

var ErrInvalidBucketSize = errors.New("bucket size must be a positive integer")

// Generalize replaces a numeric value by the range bucket of size bucketSize
// it falls into, formatted as "{lower}-{upper}". Fractional values are
// truncated toward zero before bucketing. Values that can't be converted to an
// integer are returned as their string form, and nil returns nil. Bounds are
// computed with arbitrary precision, so buckets at the int64 limits and floats
// beyond them don't wrap.
func Generalize(value any, bucketSize int) (any, error) {
	if bucketSize <= 0 {
		return nil, ErrInvalidBucketSize
	}
	if value == nil {
		return nil, nil
	}

	v, ok := toInteger(value)
	if !ok {
		return batch.Format(value), nil
	}

	size := big.NewInt(int64(bucketSize))
	// Div is euclidean, which floors for a positive divisor: -5 lands in the
	// -10..-1 bucket rather than 0..9.
	lower := new(big.Int).Div(v, size)
	lower.Mul(lower, size)
	upper := new(big.Int).Add(lower, size)
	upper.Sub(upper, big.NewInt(1))
	return lower.String() + "-" + upper.String(), nil
}

func toInteger(value any) (*big.Int, bool) {
	switch v := batch.Normalize(value).(type) {
	case int64:
		return big.NewInt(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		i, _ := big.NewFloat(math.Trunc(v)).Int(nil)
		return i, true
	case bool:
		if v {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	case string:
		return new(big.Int).SetString(strings.TrimSpace(v), 10)
	default:
		return nil, false
	}
}
