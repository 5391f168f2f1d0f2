// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/parmahealth/parma/internal/progress"
	"github.com/parmahealth/parma/pkg/anonymizer"
	anonymizerinstrumentation "github.com/parmahealth/parma/pkg/anonymizer/instrumentation"
	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/connector/compact"
	"github.com/parmahealth/parma/pkg/connector/csv"
	"github.com/parmahealth/parma/pkg/connector/jsonl"
	kafkasink "github.com/parmahealth/parma/pkg/connector/kafka"
	"github.com/parmahealth/parma/pkg/connector/postgres"
	loglib "github.com/parmahealth/parma/pkg/log"
	"github.com/parmahealth/parma/pkg/otel"
)

// Run anonymizes the configured source into the configured targets.
func Run(ctx context.Context, logger loglib.Logger, config *Config, instrumentation *otel.Instrumentation) (*Stats, error) {
	if err := config.IsValid(); err != nil {
		return nil, fmt.Errorf("incompatible configuration: %w", err)
	}

	engine, err := anonymizer.New(&config.Anonymizer, anonymizer.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if config.Anonymizer.HasNoRules() {
		logger.Warn(nil, "no anonymization rules configured, batches are written unchanged")
	}

	processor, err := anonymizerinstrumentation.NewAnonymizer(engine, instrumentation)
	if err != nil {
		return nil, err
	}

	source, err := BuildSource(ctx, logger, &config.Source)
	if err != nil {
		return nil, err
	}
	defer closeAll(logger, source)

	sinks, rawSinks, err := buildSinks(logger, &config.Target, instrumentation)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithLogger(logger),
		WithProcessor(processor),
		WithSinks(sinks...),
		WithRawSinks(rawSinks...),
		WithWorkers(config.workers()),
	}
	if config.Progress {
		opts = append(opts, WithProgressBar(progress.NewRowsBar("anonymizing")))
	}

	stats, err := New(source, opts...).Run(ctx)
	return stats, errors.Join(err, closeSinks(logger, append(sinks, rawSinks...)))
}

// Encode writes the source batches unchanged into the sink. Used to convert
// between formats, typically into the compact encoding.
func Encode(ctx context.Context, logger loglib.Logger, source batch.Source, sink batch.Sink) (*Stats, error) {
	stats, err := New(source, WithLogger(logger), WithSinks(sink)).Run(ctx)
	return stats, errors.Join(err, closeAll(logger, source, sink))
}

// BuildSource returns the source configured on input.
func BuildSource(ctx context.Context, logger loglib.Logger, config *SourceConfig) (batch.Source, error) {
	switch {
	case config.CSV != nil:
		return csv.NewReader(*config.CSV, csv.WithReaderLogger(logger)), nil
	case config.JSONL != nil:
		return jsonl.NewReader(*config.JSONL, jsonl.WithReaderLogger(logger)), nil
	case config.Postgres != nil:
		source, err := postgres.NewSource(ctx, config.Postgres, postgres.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("creating postgres source: %w", err)
		}
		return source, nil
	default:
		return nil, ErrMissingSource
	}
}

func buildSinks(logger loglib.Logger, config *TargetConfig, instrumentation *otel.Instrumentation) (sinks, rawSinks []batch.Sink, err error) {
	if config.CSV != nil {
		sinks = append(sinks, csv.NewWriter(*config.CSV, csv.WithWriterLogger(logger)))
	}
	if config.JSONL != nil {
		sinks = append(sinks, jsonl.NewWriter(*config.JSONL, jsonl.WithWriterLogger(logger)))
	}
	if config.Kafka != nil {
		sink, err := kafkasink.NewSink(config.Kafka,
			kafkasink.WithLogger(logger),
			kafkasink.WithInstrumentation(instrumentation))
		if err != nil {
			closeSinks(logger, sinks)
			return nil, nil, fmt.Errorf("creating kafka sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if config.Compact != nil {
		sink := compact.NewFileWriter(config.Compact.Path, compact.WithLogger(logger))
		if config.Compact.Raw {
			rawSinks = append(rawSinks, sink)
		} else {
			sinks = append(sinks, sink)
		}
	}
	return sinks, rawSinks, nil
}

type closer interface {
	Close() error
}

func closeSinks(logger loglib.Logger, sinks []batch.Sink) error {
	closers := make([]closer, 0, len(sinks))
	for _, s := range sinks {
		closers = append(closers, s)
	}
	return closeAll(logger, closers...)
}

func closeAll(logger loglib.Logger, closers ...closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn(err, "closing connector")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
