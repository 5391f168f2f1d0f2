// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/parmahealth/parma/pkg/batch"
	loglib "github.com/parmahealth/parma/pkg/log"
)

// Processor anonymizes batches of tabular data.
type Processor interface {
	Process(ctx context.Context, b *batch.Batch) (*batch.Batch, error)
}

// Anonymizer applies an ordered list of compiled rules to batches. It is safe
// for concurrent use, since compiled rules hold no mutable state.
type Anonymizer struct {
	logger  loglib.Logger
	actions map[Action]ActionDefinition
	rules   []Rule
	steps   []step
}

type step struct {
	index int
	rule  Rule
	op    Operation
}

type Option func(a *Anonymizer)

// New compiles the rules in the configuration. It returns a
// *ConfigurationError for the first rule that can't be compiled.
func New(cfg *Config, opts ...Option) (*Anonymizer, error) {
	a := &Anonymizer{
		logger:  loglib.NewNoopLogger(),
		actions: maps.Clone(ActionsMap),
	}

	for _, opt := range opts {
		opt(a)
	}

	if cfg == nil {
		cfg = &Config{}
	}

	a.rules = slices.Clone(cfg.Rules)
	a.steps = make([]step, 0, len(cfg.Rules))
	for i, rule := range cfg.Rules {
		op, err := a.compile(rule, cfg)
		if err != nil {
			return nil, &ConfigurationError{
				Index:  i,
				Field:  rule.Field,
				Action: rule.Action,
				Err:    err,
			}
		}
		a.steps = append(a.steps, step{index: i, rule: rule, op: op})
	}

	a.logger.Debug("anonymizer rules compiled", loglib.Fields{"rules": len(a.steps)})
	return a, nil
}

func WithLogger(l loglib.Logger) Option {
	return func(a *Anonymizer) {
		a.logger = loglib.WithModule(l, "anonymizer")
	}
}

// WithAction registers a custom action, or overrides a built in one.
func WithAction(action Action, def ActionDefinition) Option {
	return func(a *Anonymizer) {
		a.actions[action] = def
	}
}

func (a *Anonymizer) compile(rule Rule, cfg *Config) (Operation, error) {
	if rule.Field == "" {
		return nil, ErrMissingField
	}

	def, found := a.actions[rule.Action]
	if !found || def.Build == nil {
		return nil, ErrUnsupportedAction
	}

	if err := def.validate(rule.Params); err != nil {
		return nil, err
	}

	return def.Build(rule.Params, cfg)
}

// Process returns a new batch with the rules applied in order. Rules whose
// field is not in the batch are skipped. The input batch is never modified.
func (a *Anonymizer) Process(_ context.Context, b *batch.Batch) (*batch.Batch, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil batch", batch.ErrInvalidBatch)
	}

	out := b.Clone()
	for _, s := range a.steps {
		if !out.HasColumn(s.rule.Field) {
			if a.logger.IsTraceEnabled() {
				a.logger.Trace("field not present, skipping rule", loglib.Fields{
					loglib.FieldField:  s.rule.Field,
					loglib.ActionField: string(s.rule.Action),
				})
			}
			continue
		}

		if err := s.op.Apply(out, s.rule.Field); err != nil {
			return nil, fmt.Errorf("rule %d (%s on %q): %w", s.index, s.rule.Action, s.rule.Field, err)
		}
	}

	return out, nil
}

// Rules returns a copy of the configured rules, in application order.
func (a *Anonymizer) Rules() []Rule {
	return slices.Clone(a.rules)
}

// Validate compiles every rule of the configuration and returns the errors
// of all the rules that can't be compiled, in rule order.
func Validate(cfg *Config, opts ...Option) []*ConfigurationError {
	a := &Anonymizer{
		logger:  loglib.NewNoopLogger(),
		actions: maps.Clone(ActionsMap),
	}
	for _, opt := range opts {
		opt(a)
	}
	if cfg == nil {
		return nil
	}

	var errs []*ConfigurationError
	for i, rule := range cfg.Rules {
		if _, err := a.compile(rule, cfg); err != nil {
			errs = append(errs, &ConfigurationError{
				Index:  i,
				Field:  rule.Field,
				Action: rule.Action,
				Err:    err,
			})
		}
	}
	return errs
}
