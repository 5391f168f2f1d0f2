// SPDX-License-Identifier: Apache-2.0

// Package testcontainers starts the services the integration tests run
// against. Every setup function returns a cleanup that terminates the
// container.
package testcontainers

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type Cleanup func() error

const (
	PostgresImage = "postgres:17-alpine"
	KafkaImage    = "confluentinc/confluent-local:7.5.0"
)

// SetupPostgresContainer starts postgres, runs the init scripts on input and
// returns its connection url.
func SetupPostgresContainer(ctx context.Context, initScripts ...string) (string, Cleanup, error) {
	ctr, err := postgres.Run(ctx, PostgresImage,
		postgres.WithDatabase("parma"),
		postgres.WithUsername("parma"),
		postgres.WithPassword("parma"),
		postgres.WithInitScripts(initScripts...),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", nil, fmt.Errorf("retrieving connection string for postgres container: %w", err)
	}

	return url, func() error { return ctr.Terminate(ctx) }, nil
}

func SetupKafkaContainer(ctx context.Context) ([]string, Cleanup, error) {
	ctr, err := kafka.Run(ctx, KafkaImage,
		kafka.WithClusterID("parma-test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Kafka Server started").
				WithOccurrence(1).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start kafka container: %w", err)
	}

	brokers, err := ctr.Brokers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieving brokers for kafka container: %w", err)
	}

	return brokers, func() error { return ctr.Terminate(ctx) }, nil
}
