// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/parmahealth/parma/internal/backoff"
	"github.com/parmahealth/parma/pkg/anonymizer"
	"github.com/parmahealth/parma/pkg/connector/csv"
	"github.com/parmahealth/parma/pkg/connector/jsonl"
	kafkasink "github.com/parmahealth/parma/pkg/connector/kafka"
	"github.com/parmahealth/parma/pkg/connector/postgres"
	"github.com/parmahealth/parma/pkg/kafka"
	"github.com/parmahealth/parma/pkg/otel"
	"github.com/parmahealth/parma/pkg/pipeline"
	"github.com/parmahealth/parma/pkg/tls"
)

type YAMLConfig struct {
	Source          SourceConfig          `mapstructure:"source" yaml:"source"`
	Target          TargetConfig          `mapstructure:"target" yaml:"target"`
	Anonymizer      AnonymizerConfig      `mapstructure:"anonymizer" yaml:"anonymizer"`
	Workers         int                   `mapstructure:"workers" yaml:"workers"`
	Progress        bool                  `mapstructure:"progress" yaml:"progress"`
	Instrumentation InstrumentationConfig `mapstructure:"instrumentation" yaml:"instrumentation"`
}

type SourceConfig struct {
	CSV      *CSVSourceConfig  `mapstructure:"csv" yaml:"csv"`
	JSONL    *FileSourceConfig `mapstructure:"jsonl" yaml:"jsonl"`
	Postgres *PostgresConfig   `mapstructure:"postgres" yaml:"postgres"`
}

type CSVSourceConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	BatchSize int    `mapstructure:"batch_size" yaml:"batch_size"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

type FileSourceConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	BatchSize int    `mapstructure:"batch_size" yaml:"batch_size"`
}

type PostgresConfig struct {
	URL       string `mapstructure:"url" yaml:"url"`
	Table     string `mapstructure:"table" yaml:"table"`
	BatchSize int    `mapstructure:"batch_size" yaml:"batch_size"`
}

type TargetConfig struct {
	CSV     *CSVTargetConfig     `mapstructure:"csv" yaml:"csv"`
	JSONL   *FileTargetConfig    `mapstructure:"jsonl" yaml:"jsonl"`
	Kafka   *KafkaConfig         `mapstructure:"kafka" yaml:"kafka"`
	Compact *CompactTargetConfig `mapstructure:"compact" yaml:"compact"`
}

type CSVTargetConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

type FileTargetConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type CompactTargetConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
	Raw  bool   `mapstructure:"raw" yaml:"raw"`
}

type KafkaConfig struct {
	Servers      []string         `mapstructure:"servers" yaml:"servers"`
	Topic        KafkaTopicConfig `mapstructure:"topic" yaml:"topic"`
	TLS          *TLSConfig       `mapstructure:"tls" yaml:"tls"`
	Key          string           `mapstructure:"key" yaml:"key"`
	BatchTimeout int              `mapstructure:"batch_timeout" yaml:"batch_timeout"`
	BatchBytes   int64            `mapstructure:"batch_bytes" yaml:"batch_bytes"`
	BatchSize    int              `mapstructure:"batch_size" yaml:"batch_size"`
	Backoff      *BackoffConfig   `mapstructure:"backoff" yaml:"backoff"`
}

type KafkaTopicConfig struct {
	Name              string `mapstructure:"name" yaml:"name"`
	Partitions        int    `mapstructure:"partitions" yaml:"partitions"`
	ReplicationFactor int    `mapstructure:"replication_factor" yaml:"replication_factor"`
	AutoCreate        bool   `mapstructure:"auto_create" yaml:"auto_create"`
}

type TLSConfig struct {
	CACert     string `mapstructure:"ca_cert" yaml:"ca_cert"`
	ClientCert string `mapstructure:"client_cert" yaml:"client_cert"`
	ClientKey  string `mapstructure:"client_key" yaml:"client_key"`
	ServerName string `mapstructure:"server_name" yaml:"server_name"`
}

type BackoffConfig struct {
	Exponential *ExponentialBackoffConfig `mapstructure:"exponential" yaml:"exponential"`
	Constant    *ConstantBackoffConfig    `mapstructure:"constant" yaml:"constant"`
}

type ExponentialBackoffConfig struct {
	MaxRetries      uint `mapstructure:"max_retries" yaml:"max_retries"`
	InitialInterval int  `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     int  `mapstructure:"max_interval" yaml:"max_interval"`
}

type ConstantBackoffConfig struct {
	MaxRetries uint `mapstructure:"max_retries" yaml:"max_retries"`
	Interval   int  `mapstructure:"interval" yaml:"interval"`
}

type AnonymizerConfig struct {
	Salt      string            `mapstructure:"salt" yaml:"salt"`
	RulesFile string            `mapstructure:"rules_file" yaml:"rules_file"`
	Rules     []anonymizer.Rule `mapstructure:"rules" yaml:"rules"`
}

type InstrumentationConfig struct {
	Metrics *MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Traces  *TracesConfig  `mapstructure:"traces" yaml:"traces"`
}

type MetricsConfig struct {
	Endpoint           string `mapstructure:"endpoint" yaml:"endpoint"`
	CollectionInterval int    `mapstructure:"collection_interval" yaml:"collection_interval"`
}

type TracesConfig struct {
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}

var (
	errMissingKafkaTopic  = errors.New("kafka target requires a topic name")
	errInvalidDelimiter   = errors.New("csv delimiter must be a single character")
	errInvalidSampleRatio = errors.New("traces sample ratio must be between 0 and 1")
)

func (c *YAMLConfig) toPipelineConfig() (*pipeline.Config, error) {
	source, err := c.Source.toPipelineConfig()
	if err != nil {
		return nil, err
	}
	target, err := c.Target.toPipelineConfig()
	if err != nil {
		return nil, err
	}

	return &pipeline.Config{
		Source: source,
		Target: target,
		Anonymizer: anonymizer.Config{
			Rules: c.Anonymizer.Rules,
			Salt:  c.Anonymizer.Salt,
		},
		Workers:  c.Workers,
		Progress: c.Progress,
	}, nil
}

func (c *SourceConfig) toPipelineConfig() (pipeline.SourceConfig, error) {
	cfg := pipeline.SourceConfig{}
	if c.CSV != nil && c.CSV.Path != "" {
		comma, err := parseDelimiter(c.CSV.Delimiter)
		if err != nil {
			return cfg, err
		}
		cfg.CSV = &csv.ReaderConfig{
			Path:      c.CSV.Path,
			BatchSize: c.CSV.BatchSize,
			Comma:     comma,
		}
	}
	if c.JSONL != nil && c.JSONL.Path != "" {
		cfg.JSONL = &jsonl.ReaderConfig{
			Path:      c.JSONL.Path,
			BatchSize: c.JSONL.BatchSize,
		}
	}
	if c.Postgres != nil && c.Postgres.URL != "" {
		cfg.Postgres = &postgres.Config{
			URL:       c.Postgres.URL,
			Table:     c.Postgres.Table,
			BatchSize: c.Postgres.BatchSize,
		}
	}
	return cfg, nil
}

func (c *TargetConfig) toPipelineConfig() (pipeline.TargetConfig, error) {
	cfg := pipeline.TargetConfig{}
	if c.CSV != nil && c.CSV.Path != "" {
		comma, err := parseDelimiter(c.CSV.Delimiter)
		if err != nil {
			return cfg, err
		}
		cfg.CSV = &csv.WriterConfig{Path: c.CSV.Path, Comma: comma}
	}
	if c.JSONL != nil && c.JSONL.Path != "" {
		cfg.JSONL = &jsonl.WriterConfig{Path: c.JSONL.Path}
	}
	if c.Compact != nil && c.Compact.Path != "" {
		cfg.Compact = &pipeline.CompactConfig{Path: c.Compact.Path, Raw: c.Compact.Raw}
	}
	if c.Kafka != nil && len(c.Kafka.Servers) > 0 {
		kafkaCfg, err := c.Kafka.toSinkConfig()
		if err != nil {
			return cfg, err
		}
		cfg.Kafka = kafkaCfg
	}
	return cfg, nil
}

func (c *KafkaConfig) toSinkConfig() (*kafkasink.Config, error) {
	if c.Topic.Name == "" {
		return nil, errMissingKafkaTopic
	}

	return &kafkasink.Config{
		Kafka: kafka.WriterConfig{
			Conn: kafka.ConnConfig{
				Servers: c.Servers,
				Topic: kafka.TopicConfig{
					Name:              c.Topic.Name,
					NumPartitions:     c.Topic.Partitions,
					ReplicationFactor: c.Topic.ReplicationFactor,
					AutoCreate:        c.Topic.AutoCreate,
				},
				TLS: c.TLS.toTLSConfig(),
			},
			BatchTimeout: time.Duration(c.BatchTimeout) * time.Millisecond,
			BatchBytes:   c.BatchBytes,
			BatchSize:    c.BatchSize,
		},
		Key:     c.Key,
		Backoff: c.Backoff.toBackoffConfig(),
	}, nil
}

func (c *TLSConfig) toTLSConfig() tls.Config {
	if c == nil {
		return tls.Config{}
	}
	return tls.Config{
		Enabled:        true,
		CaCertFile:     c.CACert,
		ClientCertFile: c.ClientCert,
		ClientKeyFile:  c.ClientKey,
		ServerName:     c.ServerName,
	}
}

func (c *BackoffConfig) toBackoffConfig() backoff.Config {
	if c == nil {
		return backoff.Config{}
	}
	cfg := backoff.Config{}
	if c.Exponential != nil {
		cfg.Exponential = &backoff.ExponentialConfig{
			MaxRetries:      c.Exponential.MaxRetries,
			InitialInterval: time.Duration(c.Exponential.InitialInterval) * time.Millisecond,
			MaxInterval:     time.Duration(c.Exponential.MaxInterval) * time.Millisecond,
		}
	}
	if c.Constant != nil {
		cfg.Constant = &backoff.ConstantConfig{
			MaxRetries: c.Constant.MaxRetries,
			Interval:   time.Duration(c.Constant.Interval) * time.Millisecond,
		}
	}
	return cfg
}

func (c *YAMLConfig) toOtelConfig() (*otel.Config, error) {
	cfg := &otel.Config{}
	if m := c.Instrumentation.Metrics; m != nil && m.Endpoint != "" {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           m.Endpoint,
			CollectionInterval: time.Duration(m.CollectionInterval) * time.Second,
		}
	}
	if tr := c.Instrumentation.Traces; tr != nil && tr.Endpoint != "" {
		if tr.SampleRatio < 0 || tr.SampleRatio > 1 {
			return nil, errInvalidSampleRatio
		}
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    tr.Endpoint,
			SampleRatio: tr.SampleRatio,
		}
	}
	return cfg, nil
}

// parseDelimiter returns 0, the reader default, for an empty delimiter.
func parseDelimiter(d string) (rune, error) {
	r := []rune(d)
	switch len(r) {
	case 0:
		return 0, nil
	case 1:
		return r[0], nil
	default:
		return 0, fmt.Errorf("%w, got %q", errInvalidDelimiter, d)
	}
}
