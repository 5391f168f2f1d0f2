// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/parmahealth/parma/pkg/batch"
)

var templateDefinition = ActionDefinition{
	Parameters: []Parameter{
		{
			Name:          "template",
			SupportedType: "string",
			Required:      true,
		},
	},
	Build: buildTemplate,
}

// TemplateValue is the data the template is executed against.
type TemplateValue struct {
	Field string
	Value any
}

func buildTemplate(params Parameters, _ *Config) (Operation, error) {
	templateStr, _, err := FindParameter[string](params, "template")
	if err != nil {
		return nil, fmt.Errorf("template: template must be a string: %w", err)
	}

	tmpl, err := template.New("").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("template: error parsing template: %w: %w", err, ErrInvalidParameters)
	}

	return OperationFn(func(b *batch.Batch, field string) error {
		return ValueFn(func(v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			var buf strings.Builder
			if err := tmpl.Execute(&buf, &TemplateValue{Field: field, Value: v}); err != nil {
				return nil, fmt.Errorf("template: error executing template: %w", err)
			}
			return buf.String(), nil
		}).Apply(b, field)
	}), nil
}
