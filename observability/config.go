package observability

import (
	"errors"
	"fmt"
	"time"
)

// Config controls OTLP/HTTP export. Disabled leaves the otel globals as
// no-ops, so instruments created from them cost nothing.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is host:port of the collector.
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
	// SampleRate is the fraction of traces kept, 0 to 1.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.SampleRate < 0 || c.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("observability.sample_rate %v is outside [0, 1]", c.SampleRate))
	}
	if c.MetricInterval < 0 {
		errs = append(errs, fmt.Errorf("observability.metric_interval cannot be negative (%s)", c.MetricInterval))
	}
	if c.Endpoint == "" {
		errs = append(errs, errors.New("observability.endpoint is required"))
	}
	return errors.Join(errs...)
}
