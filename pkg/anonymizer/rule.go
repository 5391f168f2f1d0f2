// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"github.com/parmahealth/parma/pkg/anonymizer/primitives"
)

// Action names one anonymization action a rule applies to a field.
type Action string

const (
	Suppress      Action = "suppress"
	Mask          Action = "mask"
	Pseudonymize  Action = "pseudonymize"
	Generalize    Action = "generalize"
	Redact        Action = "redact"
	Template      Action = "template"
	TestTransform Action = "test_transform"
)

const DefaultSalt = primitives.DefaultSalt

type Parameters map[string]any

// Rule describes one anonymization action applied to one named field.
type Rule struct {
	Field  string     `mapstructure:"field" yaml:"field" json:"field"`
	Action Action     `mapstructure:"action" yaml:"action" json:"action"`
	Params Parameters `mapstructure:"params" yaml:"params,omitempty" json:"params,omitempty"`
}

// Config aggregates the ordered rule list and the default salt used by the
// hashing actions. Rules are applied in order, so a rule sees the output of
// the ones before it.
type Config struct {
	Rules []Rule `mapstructure:"rules" yaml:"rules" json:"rules"`
	Salt  string `mapstructure:"salt" yaml:"salt" json:"salt"`
}

func (c *Config) salt() string {
	if c == nil || c.Salt == "" {
		return DefaultSalt
	}
	return c.Salt
}

func (c *Config) HasNoRules() bool {
	return c == nil || len(c.Rules) == 0
}
