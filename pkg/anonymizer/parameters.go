// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Parameter describes one parameter accepted by an action.
type Parameter struct {
	Name          string
	SupportedType string
	Default       any
	Required      bool
	Values        []any
}

func FindParameter[T any](params Parameters, name string) (T, bool, error) {
	valAny, found := params[name]
	if !found {
		return *new(T), false, nil
	}

	val, ok := valAny.(T)
	if !ok {
		return *new(T), true, ErrInvalidParameters
	}

	return val, true, nil
}

// FindParameterWithDefault returns the parameter value if present, or the
// default value otherwise.
func FindParameterWithDefault[T any](params Parameters, name string, defaultVal T) (T, error) {
	val, found, err := FindParameter[T](params, name)
	if err != nil {
		return val, err
	}
	if !found {
		return defaultVal, nil
	}
	return val, nil
}

// FindIntParameter decodes an integer parameter. Config files decode numbers
// differently (yaml ints, json float64, env strings), so any integral
// representation is accepted.
func FindIntParameter(params Parameters, name string, defaultVal int) (int, error) {
	valAny, found := params[name]
	if !found {
		return defaultVal, nil
	}

	switch v := valAny.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s must be an integer, got %v: %w", name, v, ErrInvalidParameters)
		}
	case bool:
		return 0, fmt.Errorf("%s must be an integer, got %v: %w", name, v, ErrInvalidParameters)
	}

	var val int
	if err := mapstructure.WeakDecode(valAny, &val); err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, ErrInvalidParameters)
	}
	return val, nil
}

// ValidateParameters returns an error if any of the parameters on input is
// not part of the supported ones.
func ValidateParameters(params Parameters, supported []string) error {
	var unknown []string
	for name := range params {
		if !slices.Contains(supported, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unexpected parameters %s: %w", strings.Join(unknown, ", "), ErrInvalidParameters)
}
