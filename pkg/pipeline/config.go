// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"

	"github.com/parmahealth/parma/pkg/anonymizer"
	"github.com/parmahealth/parma/pkg/connector/csv"
	"github.com/parmahealth/parma/pkg/connector/jsonl"
	kafkasink "github.com/parmahealth/parma/pkg/connector/kafka"
	"github.com/parmahealth/parma/pkg/connector/postgres"
)

type Config struct {
	Source     SourceConfig
	Target     TargetConfig
	Anonymizer anonymizer.Config
	// Workers is the number of batches anonymized concurrently. Output order
	// is preserved regardless. Defaults to 1.
	Workers int
	// Progress renders a row counter on stderr while running.
	Progress bool
}

// SourceConfig holds exactly one configured source.
type SourceConfig struct {
	CSV      *csv.ReaderConfig
	JSONL    *jsonl.ReaderConfig
	Postgres *postgres.Config
}

type TargetConfig struct {
	CSV     *csv.WriterConfig
	JSONL   *jsonl.WriterConfig
	Kafka   *kafkasink.Config
	Compact *CompactConfig
}

// CompactConfig configures the compact encoding output, written in addition
// to the other targets.
type CompactConfig struct {
	Path string
	// Raw writes the batches as read from the source, before anonymization.
	Raw bool
}

var (
	ErrMissingSource   = errors.New("need exactly one source configured, got none")
	errMultipleSources = errors.New("need exactly one source configured, got several")
	errMissingTarget   = errors.New("need at least one target configured")
	errRawCompactOnly  = errors.New("raw compact output needs another target for the anonymized batches")
	errMissingPath     = errors.New("compact output path is required")
)

func (c *Config) IsValid() error {
	sources := 0
	if c.Source.CSV != nil {
		sources++
	}
	if c.Source.JSONL != nil {
		sources++
	}
	if c.Source.Postgres != nil {
		sources++
	}
	switch {
	case sources == 0:
		return ErrMissingSource
	case sources > 1:
		return errMultipleSources
	}

	targets := c.Target.anonymizedTargets()
	if c.Target.Compact != nil {
		if c.Target.Compact.Path == "" {
			return errMissingPath
		}
		if c.Target.Compact.Raw && targets == 0 {
			return errRawCompactOnly
		}
		if !c.Target.Compact.Raw {
			targets++
		}
	}
	if targets == 0 {
		return errMissingTarget
	}

	return nil
}

func (c *TargetConfig) anonymizedTargets() int {
	n := 0
	if c.CSV != nil {
		n++
	}
	if c.JSONL != nil {
		n++
	}
	if c.Kafka != nil {
		n++
	}
	return n
}

func (c *Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
