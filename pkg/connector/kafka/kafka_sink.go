// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/parmahealth/parma/internal/backoff"
	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/kafka"
	kafkainstrumentation "github.com/parmahealth/parma/pkg/kafka/instrumentation"
	loglib "github.com/parmahealth/parma/pkg/log"
	"github.com/parmahealth/parma/pkg/otel"
	"github.com/parmahealth/parma/pkg/toon"

	kafkago "github.com/segmentio/kafka-go"
)

type Config struct {
	Kafka kafka.WriterConfig
	// Key of every produced message. Messages sharing a key go to the same
	// partition, which keeps the batches in order. Defaults to the topic
	// name.
	Key     string
	Backoff backoff.Config
}

var defaultBackoffConfig = backoff.Config{
	Exponential: &backoff.ExponentialConfig{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxRetries:      5,
	},
}

// Sink publishes the compact encoding of every batch as one kafka message.
type Sink struct {
	logger          loglib.Logger
	instrumentation *otel.Instrumentation
	writer          kafka.MessageWriter
	key             []byte
	backoffProvider backoff.Provider
}

type Option func(*Sink)

func NewSink(cfg *Config, opts ...Option) (*Sink, error) {
	s := &Sink{
		logger: loglib.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.writer == nil {
		w, err := kafka.NewWriter(cfg.Kafka, s.logger)
		if err != nil {
			return nil, fmt.Errorf("creating kafka writer: %w", err)
		}
		s.writer = w
	}

	w, err := kafkainstrumentation.NewWriter(s.writer, s.instrumentation)
	if err != nil {
		return nil, err
	}
	s.writer = w

	key := cfg.Key
	if key == "" {
		key = cfg.Kafka.Conn.Topic.Name
	}
	s.key = []byte(key)

	boCfg := cfg.Backoff
	if boCfg.Exponential == nil && boCfg.Constant == nil {
		boCfg = defaultBackoffConfig
	}
	s.backoffProvider = backoff.NewProvider(&boCfg)

	return s, nil
}

func WithLogger(l loglib.Logger) Option {
	return func(s *Sink) {
		s.logger = loglib.WithModule(l, "kafka_sink")
	}
}

// WithInstrumentation wraps the kafka writer with metrics and traces.
func WithInstrumentation(i *otel.Instrumentation) Option {
	return func(s *Sink) {
		s.instrumentation = i
	}
}

func WithWriter(w kafka.MessageWriter) Option {
	return func(s *Sink) {
		s.writer = w
	}
}

func (s *Sink) Write(ctx context.Context, batches iter.Seq2[*batch.Batch, error]) error {
	index := 0
	for b, err := range batches {
		if err != nil {
			return err
		}

		encoded, err := toon.Encode(b)
		if err != nil {
			return err
		}
		if encoded == "" {
			continue
		}

		msg := kafka.Message{
			Key:   s.key,
			Value: []byte(encoded),
			Headers: []kafkago.Header{
				{Key: kafka.BatchHeader, Value: []byte(strconv.Itoa(index))},
				{Key: kafka.RowsHeader, Value: []byte(strconv.Itoa(b.NumRows()))},
			},
		}
		if err := s.publish(ctx, msg); err != nil {
			return fmt.Errorf("publishing batch %d: %w", index, err)
		}
		index++
	}
	return nil
}

func (s *Sink) publish(ctx context.Context, msg kafka.Message) error {
	bo := s.backoffProvider(ctx)
	return bo.RetryNotify(
		func() error {
			err := s.writer.WriteMessages(ctx, msg)
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("%w: %w", backoff.ErrPermanent, err)
			}
			return err
		},
		func(err error, d time.Duration) {
			s.logger.Warn(err, "kafka write failed, retrying", loglib.Fields{"backoff": d})
		})
}

func (s *Sink) Close() error {
	return s.writer.Close()
}
