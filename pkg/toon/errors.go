// SPDX-License-Identifier: Apache-2.0

package toon

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrMalformed        = errors.New("malformed compact encoding")
)

// UnsupportedInputError is returned by Encode when the input is neither a
// batch nor a sequence of records.
type UnsupportedInputError struct {
	Type string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input type %s: expected a batch or a sequence of records", e.Type)
}

func (e *UnsupportedInputError) Is(target error) bool {
	return target == ErrUnsupportedInput
}
