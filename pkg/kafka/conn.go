// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	tlslib "github.com/parmahealth/parma/pkg/tls"

	"github.com/segmentio/kafka-go"
)

// withControllerConnection runs the operation against a connection to the
// cluster controller, which is the only broker allowed to create topics. The
// connections are closed when the operation returns.
func withControllerConnection(config *ConnConfig, op func(conn *kafka.Conn) error) error {
	dialer, err := newDialer(&config.TLS)
	if err != nil {
		return err
	}

	var conn *kafka.Conn
	var dialErrs error
	for _, server := range config.Servers {
		conn, err = dialer.Dial("tcp", server)
		if err == nil {
			break
		}
		dialErrs = errors.Join(dialErrs, fmt.Errorf("%s: %w", server, err))
	}
	if conn == nil {
		return fmt.Errorf("connecting to kafka, all servers failed: %w", dialErrs)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}

	controllerConn, err := dialer.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("controller connection: %w", err)
	}
	defer controllerConn.Close()

	return op(controllerConn)
}

func newDialer(cfg *tlslib.Config) (*kafka.Dialer, error) {
	tlsConfig, err := tlslib.NewConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading TLS configuration: %w", err)
	}

	return &kafka.Dialer{
		Timeout:   defaultDialTimeout,
		DualStack: true,
		TLS:       tlsConfig,
	}, nil
}

func createTopic(cfg *ConnConfig) error {
	return withControllerConnection(cfg, func(conn *kafka.Conn) error {
		err := conn.CreateTopics(kafka.TopicConfig{
			Topic:             cfg.Topic.Name,
			NumPartitions:     cfg.Topic.numPartitions(),
			ReplicationFactor: cfg.Topic.replicationFactor(),
		})
		if err != nil {
			return fmt.Errorf("creating topic %s: %w", cfg.Topic.Name, err)
		}
		return nil
	})
}
