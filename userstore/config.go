package userstore

import "fmt"

// Backend names.
const (
	DriverMemory = "memory"
	DriverSQL    = "sql"
	DriverRedis  = "redis"
)

// Config selects the user store backend. The sql backend reads the database
// section of the service config; the redis backend reads the redis section.
type Config struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
}

// Validate checks the driver name.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMemory, DriverSQL, DriverRedis:
		return nil
	default:
		return fmt.Errorf("userstore driver must be one of %s, %s, %s (got: %s)",
			DriverMemory, DriverSQL, DriverRedis, c.Driver)
	}
}
