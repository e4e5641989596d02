package server

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/kbukum/authgate/security"
	"github.com/kbukum/authgate/server/middleware"
)

// Config is the server section of the service config.
type Config struct {
	Host         string                     `yaml:"host" mapstructure:"host"`
	Port         int                        `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration              `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration              `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration              `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownWait time.Duration              `yaml:"shutdown_wait" mapstructure:"shutdown_wait"`
	MaxBodySize  string                     `yaml:"max_body_size" mapstructure:"max_body_size"`
	CORS         middleware.CORSConfig      `yaml:"cors" mapstructure:"cors"`
	RateLimit    middleware.RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	TLS          security.ServerTLS         `yaml:"tls" mapstructure:"tls"`

	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the client IP is always the socket peer.
	TrustedProxies []string `yaml:"trusted_proxies" mapstructure:"trusted_proxies"`
}

func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, d := range []struct {
		v   *time.Duration
		def time.Duration
	}{
		{&c.ReadTimeout, 15 * time.Second},
		{&c.WriteTimeout, 15 * time.Second},
		{&c.IdleTimeout, time.Minute},
		{&c.ShutdownWait, 5 * time.Second},
	} {
		if *d.v == 0 {
			*d.v = d.def
		}
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "64KB"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Port))
	}
	for key, d := range map[string]time.Duration{
		"read_timeout":  c.ReadTimeout,
		"write_timeout": c.WriteTimeout,
		"idle_timeout":  c.IdleTimeout,
		"shutdown_wait": c.ShutdownWait,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("server.%s cannot be negative (%s)", key, d))
		}
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("server.rate_limit.requests_per_minute cannot be negative"))
	}
	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		errs = append(errs, errors.New("server.cors.allow_credentials needs explicit allowed_origins"))
	}
	for _, p := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(p); err != nil && net.ParseIP(p) == nil {
			errs = append(errs, fmt.Errorf("server.trusted_proxies: %q is not an IP or CIDR", p))
		}
	}
	if err := c.TLS.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server.%w", err))
	}
	return errors.Join(errs...)
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
