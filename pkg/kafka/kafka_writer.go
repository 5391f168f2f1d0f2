// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"
	"fmt"
	"strconv"

	loglib "github.com/parmahealth/parma/pkg/log"
	tlslib "github.com/parmahealth/parma/pkg/tls"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(context.Context, ...Message) error
	Close() error
}

// Writer is a wrapper around the kafkago library writer
type Writer struct {
	kafkaWriter *kafka.Writer
}

// Message is a wrapper around the kafkago library message
type Message kafka.Message

// Headers set on every message produced by the kafka sink.
const (
	BatchHeader = "parma-batch"
	RowsHeader  = "parma-rows"
)

// Rows returns the number of rows carried in the message, read from its rows
// header.
func (m Message) Rows() (int, bool) {
	for _, h := range m.Headers {
		if h.Key != RowsHeader {
			continue
		}
		rows, err := strconv.Atoi(string(h.Value))
		if err != nil {
			return 0, false
		}
		return rows, true
	}
	return 0, false
}

// Size returns the size of the kafka message value, headers excluded.
func (m Message) Size() int {
	return len(m.Value)
}

func (m Message) IsEmpty() bool {
	return m.Value == nil
}

// NewWriter returns a kafka writer that produces messages to the configured
// topic. Messages are routed with the CRC32 balancer, so messages sharing a
// key land on the same partition and keep their relative order.
func NewWriter(config WriterConfig, logger loglib.Logger) (*Writer, error) {
	if err := config.Conn.Validate(); err != nil {
		return nil, err
	}

	logger = loglib.NewLogger(logger)
	logger.Info("creating kafka writer", loglib.Fields{
		"kafka_servers": config.Conn.Servers,
		"kafka_topic":   config.Conn.Topic.Name,
		"tls_enabled":   config.Conn.TLS.Enabled,
	})

	if config.Conn.Topic.AutoCreate {
		if err := createTopic(&config.Conn); err != nil {
			return nil, err
		}
	}

	transport, err := newTransport(&config.Conn.TLS)
	if err != nil {
		return nil, err
	}

	return &Writer{
		kafkaWriter: &kafka.Writer{
			Addr:         kafka.TCP(config.Conn.Servers...),
			Topic:        config.Conn.Topic.Name,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.CRC32Balancer{},
			Transport:    transport,
			Logger:       makeLogger(logger.Trace),
			ErrorLogger:  makeErrLogger(logger.Error),
			BatchTimeout: config.BatchTimeout,
			BatchBytes:   config.BatchBytes,
			BatchSize:    config.BatchSize,
		},
	}, nil
}

func (w *Writer) WriteMessages(ctx context.Context, msgs ...Message) error {
	kafkaMsgs := make([]kafka.Message, 0, len(msgs))
	for _, msg := range msgs {
		kafkaMsgs = append(kafkaMsgs, kafka.Message(msg))
	}
	return w.kafkaWriter.WriteMessages(ctx, kafkaMsgs...)
}

func (w *Writer) Close() error {
	return w.kafkaWriter.Close()
}

func newTransport(cfg *tlslib.Config) (kafka.RoundTripper, error) {
	if !cfg.Enabled {
		return kafka.DefaultTransport, nil
	}

	tlsConfig, err := tlslib.NewConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building TLS config: %w", err)
	}
	return &kafka.Transport{TLS: tlsConfig}, nil
}
