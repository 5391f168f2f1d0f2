// SPDX-License-Identifier: Apache-2.0

package toon

import (
	"fmt"

	"github.com/parmahealth/parma/internal/json"
	"github.com/parmahealth/parma/pkg/batch"
)

type wireRecord struct {
	Schema *[]string `json:"s"`
	Rows   [][]any   `json:"d"`
}

// Decode parses a compact encoding back into a batch. Integral numbers decode
// as int64, other numbers as float64.
func Decode(encoded string) (*batch.Batch, error) {
	if encoded == "" {
		return batch.New()
	}

	rec := wireRecord{}
	if err := json.UnmarshalUseNumber([]byte(encoded), &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if rec.Schema == nil {
		return nil, fmt.Errorf("%w: missing schema", ErrMalformed)
	}

	b, err := batch.FromRows(*rec.Schema, rec.Rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return b, nil
}
