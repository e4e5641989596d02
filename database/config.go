package database

import (
	"errors"
	"fmt"
	"time"
)

// Drivers understood by Dialector.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config describes the SQL user store connection. Durations accept Go
// duration strings ("1h", "200ms") when loaded through viper.
type Config struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	// DSN is a file path or ":memory:" for sqlite, a URL or keyword string
	// for postgres.
	DSN string `yaml:"dsn" mapstructure:"dsn"`

	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`

	// MaxRetries bounds the connection attempts made by Open.
	MaxRetries  int  `yaml:"max_retries" mapstructure:"max_retries"`
	AutoMigrate bool `yaml:"auto_migrate" mapstructure:"auto_migrate"`

	// SlowQuery is the latency above which a statement is logged at warn.
	SlowQuery time.Duration `yaml:"slow_query" mapstructure:"slow_query"`
	// LogLevel is silent, error, warn or info.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

func (c *Config) ApplyDefaults() {
	setDefault(&c.Driver, DriverSQLite)
	setDefault(&c.LogLevel, "warn")
	setDefault(&c.MaxOpenConns, 25)
	setDefault(&c.MaxIdleConns, 5)
	setDefault(&c.MaxRetries, 5)
	setDefault(&c.ConnMaxLifetime, time.Hour)
	setDefault(&c.ConnMaxIdleTime, 5*time.Minute)
	setDefault(&c.SlowQuery, 200*time.Millisecond)
}

func setDefault[T comparable](field *T, v T) {
	var zero T
	if *field == zero {
		*field = v
	}
}

func (c *Config) Validate() error {
	if c.Driver != DriverSQLite && c.Driver != DriverPostgres {
		return fmt.Errorf("driver %q not supported, want %s or %s", c.Driver, DriverSQLite, DriverPostgres)
	}
	if c.DSN == "" {
		return errors.New("dsn is required")
	}
	if c.MaxOpenConns < 1 || c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("pool max_idle_conns=%d max_open_conns=%d: idle must not exceed open", c.MaxIdleConns, c.MaxOpenConns)
	}
	if c.ConnMaxLifetime < 0 || c.ConnMaxIdleTime < 0 || c.SlowQuery < 0 {
		return errors.New("durations must not be negative")
	}
	if _, ok := gormLevels[c.LogLevel]; !ok {
		return fmt.Errorf("log_level %q not one of silent, error, warn, info", c.LogLevel)
	}
	return nil
}
