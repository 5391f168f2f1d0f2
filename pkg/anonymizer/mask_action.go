// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"fmt"

	"github.com/parmahealth/parma/pkg/anonymizer/primitives"
)

var maskDefinition = ActionDefinition{
	Parameters: []Parameter{
		{
			Name:          "salt",
			SupportedType: "string",
			Default:       "config salt",
		},
	},
	Build: buildMask,
}

func buildMask(params Parameters, cfg *Config) (Operation, error) {
	salt, err := FindParameterWithDefault(params, "salt", cfg.salt())
	if err != nil {
		return nil, fmt.Errorf("mask: salt must be a string: %w", err)
	}

	return ValueFn(func(v any) (any, error) {
		return primitives.Digest(v, salt), nil
	}), nil
}
