// SPDX-License-Identifier: Apache-2.0

package otel

import "time"

type Config struct {
	// ServiceName defaults to "parma"
	ServiceName string
	Metrics     *MetricsConfig
	Traces      *TracesConfig
}

type MetricsConfig struct {
	Endpoint           string
	CollectionInterval time.Duration
}

type TracesConfig struct {
	Endpoint    string
	SampleRatio float64
}

const (
	defaultServiceName        = "parma"
	defaultCollectionInterval = 60 * time.Second
)

func (c *Config) IsEnabled() bool {
	return c != nil && (c.Metrics != nil || c.Traces != nil)
}

func (c *Config) serviceName() string {
	if c.ServiceName != "" {
		return c.ServiceName
	}
	return defaultServiceName
}

func (c *MetricsConfig) collectionInterval() time.Duration {
	if c.CollectionInterval > 0 {
		return c.CollectionInterval
	}
	return defaultCollectionInterval
}

func (c *TracesConfig) sampleRatio() float64 {
	switch {
	case c.SampleRatio < 0:
		return 0
	case c.SampleRatio > 1:
		return 1
	default:
		return c.SampleRatio
	}
}
