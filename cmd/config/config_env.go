// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/parmahealth/parma/internal/backoff"
	"github.com/parmahealth/parma/pkg/connector/csv"
	"github.com/parmahealth/parma/pkg/connector/jsonl"
	kafkasink "github.com/parmahealth/parma/pkg/connector/kafka"
	"github.com/parmahealth/parma/pkg/connector/postgres"
	"github.com/parmahealth/parma/pkg/kafka"
	"github.com/parmahealth/parma/pkg/otel"
	"github.com/parmahealth/parma/pkg/pipeline"
	"github.com/parmahealth/parma/pkg/tls"
	"github.com/spf13/viper"
)

func envConfigToPipelineConfig() (*pipeline.Config, error) {
	source, err := parseSourceConfig()
	if err != nil {
		return nil, err
	}
	target, err := parseTargetConfig()
	if err != nil {
		return nil, err
	}

	return &pipeline.Config{
		Source:   source,
		Target:   target,
		Workers:  viper.GetInt("PARMA_WORKERS"),
		Progress: viper.GetBool("PARMA_PROGRESS"),
	}, nil
}

func parseSourceConfig() (pipeline.SourceConfig, error) {
	cfg := pipeline.SourceConfig{}
	batchSize := viper.GetInt("PARMA_SOURCE_BATCH_SIZE")

	if path := viper.GetString("PARMA_SOURCE_CSV_PATH"); path != "" {
		comma, err := parseDelimiter(viper.GetString("PARMA_SOURCE_CSV_DELIMITER"))
		if err != nil {
			return cfg, err
		}
		cfg.CSV = &csv.ReaderConfig{Path: path, BatchSize: batchSize, Comma: comma}
	}
	if path := viper.GetString("PARMA_SOURCE_JSONL_PATH"); path != "" {
		cfg.JSONL = &jsonl.ReaderConfig{Path: path, BatchSize: batchSize}
	}
	if url := viper.GetString("PARMA_SOURCE_POSTGRES_URL"); url != "" {
		cfg.Postgres = &postgres.Config{
			URL:       url,
			Table:     viper.GetString("PARMA_SOURCE_POSTGRES_TABLE"),
			BatchSize: batchSize,
		}
	}
	return cfg, nil
}

func parseTargetConfig() (pipeline.TargetConfig, error) {
	cfg := pipeline.TargetConfig{}

	if path := viper.GetString("PARMA_TARGET_CSV_PATH"); path != "" {
		comma, err := parseDelimiter(viper.GetString("PARMA_TARGET_CSV_DELIMITER"))
		if err != nil {
			return cfg, err
		}
		cfg.CSV = &csv.WriterConfig{Path: path, Comma: comma}
	}
	if path := viper.GetString("PARMA_TARGET_JSONL_PATH"); path != "" {
		cfg.JSONL = &jsonl.WriterConfig{Path: path}
	}
	if path := viper.GetString("PARMA_TARGET_COMPACT_PATH"); path != "" {
		cfg.Compact = &pipeline.CompactConfig{
			Path: path,
			Raw:  viper.GetBool("PARMA_TARGET_COMPACT_RAW"),
		}
	}
	if servers := viper.GetStringSlice("PARMA_KAFKA_SERVERS"); len(servers) > 0 {
		kafkaCfg, err := parseKafkaSinkConfig(servers)
		if err != nil {
			return cfg, err
		}
		cfg.Kafka = kafkaCfg
	}
	return cfg, nil
}

func parseKafkaSinkConfig(servers []string) (*kafkasink.Config, error) {
	topic := viper.GetString("PARMA_KAFKA_TOPIC_NAME")
	if topic == "" {
		return nil, errMissingKafkaTopic
	}

	return &kafkasink.Config{
		Kafka: kafka.WriterConfig{
			Conn: kafka.ConnConfig{
				Servers: servers,
				Topic: kafka.TopicConfig{
					Name:              topic,
					NumPartitions:     viper.GetInt("PARMA_KAFKA_TOPIC_PARTITIONS"),
					ReplicationFactor: viper.GetInt("PARMA_KAFKA_TOPIC_REPLICATION_FACTOR"),
					AutoCreate:        viper.GetBool("PARMA_KAFKA_TOPIC_AUTO_CREATE"),
				},
				TLS: parseKafkaTLSConfig(),
			},
			BatchTimeout: viper.GetDuration("PARMA_KAFKA_WRITER_BATCH_TIMEOUT"),
			BatchBytes:   viper.GetInt64("PARMA_KAFKA_WRITER_BATCH_BYTES"),
			BatchSize:    viper.GetInt("PARMA_KAFKA_WRITER_BATCH_SIZE"),
		},
		Key:     viper.GetString("PARMA_KAFKA_MESSAGE_KEY"),
		Backoff: parseBackoffConfig("PARMA_KAFKA_WRITER"),
	}, nil
}

func parseKafkaTLSConfig() tls.Config {
	return tls.Config{
		Enabled:        viper.GetBool("PARMA_KAFKA_TLS_ENABLED"),
		CaCertFile:     viper.GetString("PARMA_KAFKA_TLS_CA_CERT_FILE"),
		ClientCertFile: viper.GetString("PARMA_KAFKA_TLS_CLIENT_CERT_FILE"),
		ClientKeyFile:  viper.GetString("PARMA_KAFKA_TLS_CLIENT_KEY_FILE"),
		ServerName:     viper.GetString("PARMA_KAFKA_TLS_SERVER_NAME"),
	}
}

func parseBackoffConfig(prefix string) backoff.Config {
	cfg := backoff.Config{}
	if maxRetries := viper.GetUint(prefix + "_EXP_BACKOFF_MAX_RETRIES"); maxRetries > 0 {
		cfg.Exponential = &backoff.ExponentialConfig{
			MaxRetries:      maxRetries,
			InitialInterval: viper.GetDuration(prefix + "_EXP_BACKOFF_INITIAL_INTERVAL"),
			MaxInterval:     viper.GetDuration(prefix + "_EXP_BACKOFF_MAX_INTERVAL"),
		}
	}
	if maxRetries := viper.GetUint(prefix + "_BACKOFF_MAX_RETRIES"); maxRetries > 0 {
		cfg.Constant = &backoff.ConstantConfig{
			MaxRetries: maxRetries,
			Interval:   viper.GetDuration(prefix + "_BACKOFF_INTERVAL"),
		}
	}
	return cfg
}

func envToOtelConfig() (*otel.Config, error) {
	cfg := &otel.Config{}
	if endpoint := viper.GetString("PARMA_METRICS_ENDPOINT"); endpoint != "" {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           endpoint,
			CollectionInterval: viper.GetDuration("PARMA_METRICS_COLLECTION_INTERVAL"),
		}
	}
	if endpoint := viper.GetString("PARMA_TRACES_ENDPOINT"); endpoint != "" {
		ratio := viper.GetFloat64("PARMA_TRACES_SAMPLE_RATIO")
		if ratio < 0 || ratio > 1 {
			return nil, errInvalidSampleRatio
		}
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    endpoint,
			SampleRatio: ratio,
		}
	}
	return cfg, nil
}
