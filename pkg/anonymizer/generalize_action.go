// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"fmt"

	"github.com/parmahealth/parma/pkg/anonymizer/primitives"
)

var generalizeDefinition = ActionDefinition{
	Parameters: []Parameter{
		{
			Name:          "bucket_size",
			SupportedType: "integer",
			Default:       primitives.DefaultBucketSize,
		},
	},
	Build: buildGeneralize,
}

func buildGeneralize(params Parameters, _ *Config) (Operation, error) {
	bucketSize, err := FindIntParameter(params, "bucket_size", primitives.DefaultBucketSize)
	if err != nil {
		return nil, fmt.Errorf("generalize: %w", err)
	}
	if bucketSize <= 0 {
		return nil, fmt.Errorf("generalize: bucket_size %d: %w", bucketSize, primitives.ErrInvalidBucketSize)
	}

	return ValueFn(func(v any) (any, error) {
		return primitives.Generalize(v, bucketSize)
	}), nil
}
