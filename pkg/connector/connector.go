// SPDX-License-Identifier: Apache-2.0

// Package connector holds the helpers shared by the batch sources and sinks
// in its sub packages.
package connector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/parmahealth/parma/pkg/batch"
)

// DefaultBatchSize is the number of rows per batch when none is configured.
const DefaultBatchSize = 1000

// BatchSize returns the configured batch size, or the default one if not
// positive.
func BatchSize(size int) int {
	if size > 0 {
		return size
	}
	return DefaultBatchSize
}

// OpenFile opens the file for reading. A missing file returns an error that
// matches batch.ErrNotFound.
func OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", batch.ErrNotFound, err)
		}
		return nil, err
	}
	return f, nil
}

// CreateFile creates or truncates the file, creating any missing parent
// directories first.
func CreateFile(path string) (*os.File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return os.Create(abs)
}
