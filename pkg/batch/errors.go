// SPDX-License-Identifier: Apache-2.0

package batch

import "errors"

var (
	// ErrNotFound is returned by sources when the underlying resource does not
	// exist at open time. It is propagated unmodified by the processing
	// pipeline.
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidBatch   = errors.New("invalid batch")
	ErrColumnNotFound = errors.New("column not found")
)
