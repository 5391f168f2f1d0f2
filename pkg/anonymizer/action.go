// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"fmt"

	"github.com/parmahealth/parma/pkg/batch"
)

// Operation applies a compiled rule to one field of a batch. The batch is
// owned by the caller and may be modified in place.
type Operation interface {
	Apply(b *batch.Batch, field string) error
}

// ValueFn transforms a single cell value.
type ValueFn func(value any) (any, error)

// Apply replaces every value of the field with the output of the function.
func (fn ValueFn) Apply(b *batch.Batch, field string) error {
	col, found := b.Column(field)
	if !found {
		return nil
	}
	values := make([]any, len(col.Values))
	for i, v := range col.Values {
		nv, err := fn(v)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		values[i] = nv
	}
	return b.ReplaceColumn(field, values)
}

// OperationFn adapts a plain function to an Operation.
type OperationFn func(b *batch.Batch, field string) error

func (fn OperationFn) Apply(b *batch.Batch, field string) error {
	return fn(b, field)
}

// BuildFn compiles the rule parameters into an operation. The config is the
// one the rule belongs to, so actions can read defaults such as the salt.
type BuildFn func(params Parameters, cfg *Config) (Operation, error)

// ActionDefinition describes the parameters an action accepts and how to
// build it.
type ActionDefinition struct {
	Parameters []Parameter
	Build      BuildFn
}

func (d ActionDefinition) parameterNames() []string {
	names := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		names = append(names, p.Name)
	}
	return names
}

func (d ActionDefinition) validate(params Parameters) error {
	if err := ValidateParameters(params, d.parameterNames()); err != nil {
		return err
	}
	for _, p := range d.Parameters {
		if _, found := params[p.Name]; p.Required && !found {
			return fmt.Errorf("%s: %w", p.Name, ErrMissingParameter)
		}
	}
	return nil
}

// ActionsMap holds the built in actions.
var ActionsMap = map[Action]ActionDefinition{
	Suppress:      suppressDefinition,
	Mask:          maskDefinition,
	Pseudonymize:  maskDefinition,
	Generalize:    generalizeDefinition,
	Redact:        redactDefinition,
	Template:      templateDefinition,
	TestTransform: testTransformDefinition,
}

// SupportedActions returns the names of the built in actions.
func SupportedActions() []Action {
	return []Action{Suppress, Mask, Pseudonymize, Generalize, Redact, Template, TestTransform}
}
