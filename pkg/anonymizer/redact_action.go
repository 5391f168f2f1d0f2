// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ggwhite/go-masker"
	"github.com/parmahealth/parma/pkg/batch"
)

const (
	rPassword   string = "password"
	rName       string = "name"
	rAddress    string = "address"
	rEmail      string = "email"
	rMobile     string = "mobile"
	rTelephone  string = "tel"
	rID         string = "id"
	rCreditCard string = "credit_card"
	rURL        string = "url"
	rDefault    string = "default"
)

var errInvalidRedactType = errors.New("redact: type must be one of 'password', 'name', 'address', 'email', 'mobile', 'tel', 'id', 'credit_card', 'url' or 'default'")

var redactDefinition = ActionDefinition{
	Parameters: []Parameter{
		{
			Name:          "type",
			SupportedType: "string",
			Default:       rDefault,
			Values:        []any{rPassword, rName, rAddress, rEmail, rMobile, rTelephone, rID, rCreditCard, rURL, rDefault},
		},
	},
	Build: buildRedact,
}

type redactFunction func(val string) string

// buildRedact keeps the shape of the value (length, domain, prefix) and
// replaces the identifying characters with '*'.
func buildRedact(params Parameters, _ *Config) (Operation, error) {
	redactType, err := FindParameterWithDefault(params, "type", rDefault)
	if err != nil {
		return nil, fmt.Errorf("redact: type must be a string: %w", err)
	}

	m := masker.New()
	var rf redactFunction
	switch redactType {
	case rPassword:
		rf = m.Password
	case rName:
		rf = m.Name
	case rAddress:
		rf = m.Address
	case rEmail:
		rf = m.Email
	case rMobile:
		rf = m.Mobile
	case rID:
		rf = m.ID
	case rTelephone:
		rf = m.Telephone
	case rCreditCard:
		rf = m.CreditCard
	case rURL:
		rf = m.URL
	case rDefault:
		rf = func(v string) string {
			return strings.Repeat("*", len(v))
		}
	default:
		return nil, fmt.Errorf("%w: %w", errInvalidRedactType, ErrInvalidParameters)
	}

	return ValueFn(func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return rf(batch.Format(v)), nil
	}), nil
}
