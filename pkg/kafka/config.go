// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"errors"
	"time"

	tlslib "github.com/parmahealth/parma/pkg/tls"
)

type ConnConfig struct {
	Servers []string
	Topic   TopicConfig
	TLS     tlslib.Config
}

type TopicConfig struct {
	Name string
	// Number of partitions to be created for the topic. Defaults to 1.
	NumPartitions int
	// Replication factor for the topic. Defaults to 1.
	ReplicationFactor int
	// AutoCreate creates the topic if it doesn't exist. Defaults to false.
	AutoCreate bool
}

type WriterConfig struct {
	Conn ConnConfig
	// BatchTimeout is the time limit on how often incomplete message batches
	// will be flushed to kafka. Defaults to 1s.
	BatchTimeout time.Duration
	// BatchBytes limits the maximum size of a request in bytes before being
	// sent to a partition. Defaults to 1048576 bytes.
	BatchBytes int64
	// BatchSize limits how many messages will be buffered before being sent
	// to a partition. Defaults to 100 messages.
	BatchSize int
}

const (
	defaultNumPartitions     = 1
	defaultReplicationFactor = 1
	defaultDialTimeout       = 10 * time.Second
)

var (
	errMissingServers = errors.New("kafka: at least one server is required")
	errMissingTopic   = errors.New("kafka: topic name is required")
)

func (c *ConnConfig) Validate() error {
	if len(c.Servers) == 0 {
		return errMissingServers
	}
	if c.Topic.Name == "" {
		return errMissingTopic
	}
	return nil
}

func (c *TopicConfig) numPartitions() int {
	if c.NumPartitions > 0 {
		return c.NumPartitions
	}
	return defaultNumPartitions
}

func (c *TopicConfig) replicationFactor() int {
	if c.ReplicationFactor > 0 {
		return c.ReplicationFactor
	}
	return defaultReplicationFactor
}
