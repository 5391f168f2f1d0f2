// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/parmahealth/parma/internal/progress"
	synclib "github.com/parmahealth/parma/internal/sync"
	"github.com/parmahealth/parma/pkg/anonymizer"
	"github.com/parmahealth/parma/pkg/batch"
	loglib "github.com/parmahealth/parma/pkg/log"
	"github.com/rs/xid"
)

// Pipeline streams the batches of a source through an optional processor and
// into one or more sinks, in source order.
type Pipeline struct {
	logger    loglib.Logger
	source    batch.Source
	processor anonymizer.Processor
	sinks     []batch.Sink
	rawSinks  []batch.Sink
	workers   int
	bar       progress.Bar
	clock     clockwork.Clock
	semFn     func(size int64) synclib.WeightedSemaphore
}

// Stats summarises a completed run. Batches and rows are counted on the
// output side.
type Stats struct {
	RunID    string
	Batches  int
	Rows     int
	Duration time.Duration
}

type Option func(*Pipeline)

var errNoSinks = errors.New("pipeline needs at least one sink")

func New(source batch.Source, opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:  loglib.NewNoopLogger(),
		source:  source,
		workers: 1,
		clock:   clockwork.NewRealClock(),
		semFn:   synclib.NewWeightedSemaphore,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithLogger(l loglib.Logger) Option {
	return func(p *Pipeline) {
		p.logger = loglib.WithModule(l, "pipeline")
	}
}

// WithProcessor sets the processor applied to every batch. Without one,
// batches reach the sinks unchanged.
func WithProcessor(processor anonymizer.Processor) Option {
	return func(p *Pipeline) {
		p.processor = processor
	}
}

// WithSinks adds sinks receiving the processed batches.
func WithSinks(sinks ...batch.Sink) Option {
	return func(p *Pipeline) {
		p.sinks = append(p.sinks, sinks...)
	}
}

// WithRawSinks adds sinks receiving the batches as read from the source.
func WithRawSinks(sinks ...batch.Sink) Option {
	return func(p *Pipeline) {
		p.rawSinks = append(p.rawSinks, sinks...)
	}
}

func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = max(n, 1)
	}
}

func WithProgressBar(bar progress.Bar) Option {
	return func(p *Pipeline) {
		p.bar = bar
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

func withSemaphore(fn func(size int64) synclib.WeightedSemaphore) Option {
	return func(p *Pipeline) {
		p.semFn = fn
	}
}

// Run drains the source into the sinks. The first error, from the source, the
// processor or any sink, stops the run and is returned. Sources and sinks are
// not closed.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	if len(p.sinks) == 0 {
		return nil, errNoSinks
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stats := &Stats{RunID: xid.New().String()}
	logger := p.logger.WithFields(loglib.Fields{loglib.RunIDField: stats.RunID})
	start := p.clock.Now()

	logger.Info("starting pipeline", loglib.Fields{"workers": p.workers})

	sinks := startSinks(ctx, p.sinks)
	var rawSinks *sinkGroup
	in := p.source.Read(ctx)
	if len(p.rawSinks) > 0 {
		rawSinks = startSinks(ctx, p.rawSinks)
		in = batch.Tee(in, rawSinks.send)
	}

	var runErr error
	for b, err := range p.process(ctx, in) {
		if err != nil {
			runErr = err
			break
		}
		if err := sinks.send(b); err != nil {
			break
		}

		stats.Batches++
		stats.Rows += b.NumRows()
		if p.bar != nil {
			if err := p.bar.Add(b.NumRows()); err != nil {
				logger.Warn(err, "updating progress bar")
			}
		}
		logger.Debug("batch delivered", loglib.Fields{loglib.BatchField: stats.Batches, loglib.RowsField: b.NumRows()})
	}

	sinkErr := sinks.close(runErr)
	rawSinkErr := rawSinks.close(runErr)

	stats.Duration = p.clock.Since(start)
	if p.bar != nil {
		if err := p.bar.Close(); err != nil {
			logger.Warn(err, "closing progress bar")
		}
	}

	if err := firstError(ctx, runErr, sinkErr, rawSinkErr); err != nil {
		logger.Error(err, "pipeline failed", loglib.Fields{"batches": stats.Batches})
		return stats, err
	}

	logger.Info("pipeline completed", loglib.Fields{
		"batches":  stats.Batches,
		"rows":     stats.Rows,
		"duration": stats.Duration.String(),
	})
	return stats, nil
}

// firstError returns the first error on input, ignoring the ones raised
// because another sink failed.
func firstError(ctx context.Context, errs ...error) error {
	sinkFailed := false
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, errSinkFailed):
			sinkFailed = true
		default:
			return err
		}
	}
	if sinkFailed {
		if err := ctx.Err(); err != nil {
			return err
		}
		return errSinkFailed
	}
	return nil
}
