// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigurationError.
	ErrConfiguration     = errors.New("invalid anonymizer configuration")
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrInvalidParameters = errors.New("invalid action parameters")
	ErrMissingParameter  = errors.New("missing required action parameter")
	ErrMissingField      = errors.New("rule field must not be empty")
)

// ConfigurationError is returned when a rule can't be compiled into an
// operation, for instance because its action is unknown or its parameters are
// invalid.
type ConfigurationError struct {
	Index  int
	Field  string
	Action Action
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rule %d (field %q, action %q): %v", e.Index, e.Field, e.Action, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
