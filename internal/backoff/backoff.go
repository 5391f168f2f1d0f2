// SPDX-License-Identifier: Apache-2.0

package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Backoff interface {
	RetryNotify(Operation, Notify) error
	Retry(Operation) error
}

type (
	Operation func() error
	Notify    func(error, time.Duration)
)

type Config struct {
	Exponential *ExponentialConfig
	Constant    *ConstantConfig
}

type ExponentialConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	MaxRetries      uint
}

type ConstantConfig struct {
	Interval   time.Duration
	MaxRetries uint
}

// ErrPermanent marks an error that must not be retried. Wrap it to stop the
// retries early.
var ErrPermanent = errors.New("permanent error, do not retry")

type Provider func(ctx context.Context) Backoff

// NewProvider returns a backoff provider based on the config on input. If no
// valid input is provided, a no retry backoff provider is returned instead.
func NewProvider(cfg *Config) Provider {
	switch {
	case cfg == nil:
		return func(context.Context) Backoff { return NewStopBackoff() }
	case cfg.Constant != nil:
		return func(ctx context.Context) Backoff {
			return NewConstantBackoff(ctx, cfg.Constant)
		}
	case cfg.Exponential != nil:
		return func(ctx context.Context) Backoff {
			return NewExponentialBackoff(ctx, cfg.Exponential)
		}
	default:
		return func(context.Context) Backoff { return NewStopBackoff() }
	}
}

// retrier adapts a cenkalti backoff policy to the Backoff interface.
type retrier struct {
	policy backoff.BackOff
}

func NewExponentialBackoff(ctx context.Context, cfg *ExponentialConfig) Backoff {
	exp := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		exp.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		exp.MaxInterval = cfg.MaxInterval
	}
	exp.MaxElapsedTime = cfg.MaxElapsedTime
	return newRetrier(ctx, exp, cfg.MaxRetries)
}

func NewConstantBackoff(ctx context.Context, cfg *ConstantConfig) Backoff {
	return newRetrier(ctx, backoff.NewConstantBackOff(cfg.Interval), cfg.MaxRetries)
}

func NewStopBackoff() Backoff {
	return &retrier{policy: &backoff.StopBackOff{}}
}

func newRetrier(ctx context.Context, bo backoff.BackOff, maxRetries uint) *retrier {
	if maxRetries > 0 {
		bo = backoff.WithMaxRetries(bo, uint64(maxRetries))
	}
	return &retrier{policy: backoff.WithContext(bo, ctx)}
}

func (r *retrier) Retry(op Operation) error {
	return r.RetryNotify(op, nil)
}

func (r *retrier) RetryNotify(op Operation, notify Notify) error {
	boOp := func() error {
		err := op()
		if errors.Is(err, ErrPermanent) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(boOp, r.policy, backoff.Notify(notify))
}
