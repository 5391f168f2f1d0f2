// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"fmt"

	"github.com/parmahealth/parma/pkg/batch"
)

const defaultTestSuffix = "_transformed"

// test_transform makes rule wiring visible in the output without altering
// the values beyond recognition. Only meant for pipeline tests.
var testTransformDefinition = ActionDefinition{
	Parameters: []Parameter{
		{
			Name:          "suffix",
			SupportedType: "string",
			Default:       defaultTestSuffix,
		},
	},
	Build: buildTestTransform,
}

func buildTestTransform(params Parameters, _ *Config) (Operation, error) {
	suffix, err := FindParameterWithDefault(params, "suffix", defaultTestSuffix)
	if err != nil {
		return nil, fmt.Errorf("test_transform: suffix must be a string: %w", err)
	}

	return ValueFn(func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return batch.Format(v) + suffix, nil
	}), nil
}
