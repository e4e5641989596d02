package redis

import (
	"errors"
	"time"

	"github.com/kbukum/authgate/security"
)

// Config points the redis user store at a server.
type Config struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	// KeyPrefix is prepended to every key, separated by ':'.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`

	PoolSize     int `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	MaxRetries   int `yaml:"max_retries" mapstructure:"max_retries"`

	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`

	TLS security.ClientTLS `yaml:"tls" mapstructure:"tls"`
}

func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "authgate"
	}
	for _, d := range []struct {
		field *int
		value int
	}{{&c.PoolSize, 10}, {&c.MinIdleConns, 2}, {&c.MaxRetries, 3}} {
		if *d.field <= 0 {
			*d.field = d.value
		}
	}
	for _, d := range []struct {
		field *time.Duration
		value time.Duration
	}{
		{&c.DialTimeout, 5 * time.Second},
		{&c.ReadTimeout, 3 * time.Second},
		{&c.WriteTimeout, 3 * time.Second},
		{&c.IdleTimeout, 5 * time.Minute},
	} {
		if *d.field == 0 {
			*d.field = d.value
		}
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("addr is required")
	case c.PoolSize < 1:
		return errors.New("pool_size must be positive")
	case c.MinIdleConns > c.PoolSize:
		return errors.New("min_idle_conns must not exceed pool_size")
	case c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0:
		return errors.New("timeouts must not be negative")
	}
	return c.TLS.Validate()
}
