package app

import (
	"fmt"

	"github.com/kbukum/authgate/auth/jwt"
	"github.com/kbukum/authgate/auth/password"
	"github.com/kbukum/authgate/config"
	"github.com/kbukum/authgate/database"
	"github.com/kbukum/authgate/gate"
	"github.com/kbukum/authgate/observability"
	"github.com/kbukum/authgate/redis"
	"github.com/kbukum/authgate/server"
	"github.com/kbukum/authgate/userstore"
)

// ServiceName is the config and env-file lookup name.
const ServiceName = "authgate"

// Config is the complete authgate configuration as read from config.yml,
// .env and the environment.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Token         jwt.Config           `yaml:"token" mapstructure:"token"`
	Password      password.Config      `yaml:"password" mapstructure:"password"`
	Gate          gate.Config          `yaml:"gate" mapstructure:"gate"`
	UserStore     userstore.Config     `yaml:"userstore" mapstructure:"userstore"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Token.ApplyDefaults()
	c.Password.ApplyDefaults()
	c.Gate.ApplyDefaults()
	c.UserStore.ApplyDefaults()
	c.Observability.ApplyDefaults()

	switch c.UserStore.Driver {
	case userstore.DriverSQL:
		c.Database.ApplyDefaults()
	case userstore.DriverRedis:
		c.Redis.ApplyDefaults()
	}
}

type section struct {
	name  string
	check func() error
}

// Validate checks every section. Database and Redis are only checked when
// the user store uses them.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	sections := []section{
		{"server", c.Server.Validate},
		{"token", c.Token.Validate},
		{"password", c.Password.Validate},
		{"gate", c.Gate.Validate},
		{"userstore", c.UserStore.Validate},
		{"observability", c.Observability.Validate},
	}
	switch c.UserStore.Driver {
	case userstore.DriverSQL:
		sections = append(sections, section{"database", c.Database.Validate})
	case userstore.DriverRedis:
		sections = append(sections, section{"redis", c.Redis.Validate})
	}
	for _, s := range sections {
		if err := s.check(); err != nil {
			return fmt.Errorf("config.%s: %w", s.name, err)
		}
	}
	return nil
}
