// SPDX-License-Identifier: Apache-2.0

package anonymizer

import "github.com/parmahealth/parma/pkg/batch"

var suppressDefinition = ActionDefinition{
	Build: func(Parameters, *Config) (Operation, error) {
		return OperationFn(suppress), nil
	},
}

// suppress drops the field. The row count is kept even when the last column
// goes away.
func suppress(b *batch.Batch, field string) error {
	b.DropColumn(field)
	return nil
}
