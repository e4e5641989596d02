package gate

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultLoginPath is where browsers are sent when their token is rejected.
const DefaultLoginPath = "/login"

// DefaultPublicPaths are reachable without a token: API docs, static
// assets, the landing and login pages, health and the auth endpoints.
var DefaultPublicPaths = []string{
	"/",
	"/login",
	"/health",
	"/v1/auth/**",
	"/swagger-ui.html",
	"/swagger-ui/**",
	"/swagger-resources**",
	"/swagger-resources/**",
	"/v3/api-docs**",
	"/v3/api-docs/**",
	"/webjars/**",
	"/static/**",
	"/css/**",
	"/js/**",
	"/images/**",
}

// Config configures the request gate.
type Config struct {
	// PublicPaths replaces DefaultPublicPaths when set. Patterns use
	// doublestar syntax: "*" stays within a segment, "/**" spans segments.
	PublicPaths []string `yaml:"public_paths" mapstructure:"public_paths"`

	// ExtraPublicPaths are appended to PublicPaths.
	ExtraPublicPaths []string `yaml:"extra_public_paths" mapstructure:"extra_public_paths"`

	// LoginPath is the redirect target for rejected HTML requests.
	LoginPath string `yaml:"login_path" mapstructure:"login_path"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if len(c.PublicPaths) == 0 {
		c.PublicPaths = append([]string(nil), DefaultPublicPaths...)
	}
	if c.LoginPath == "" {
		c.LoginPath = DefaultLoginPath
	}
}

// Validate checks that every pattern is well formed.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.LoginPath, "/") {
		return fmt.Errorf("gate.login_path must start with / (got: %q)", c.LoginPath)
	}
	for _, p := range c.patterns() {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("gate public path %q must start with /", p)
		}
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("gate public path %q is not a valid pattern", p)
		}
	}
	return nil
}

func (c *Config) patterns() []string {
	out := make([]string, 0, len(c.PublicPaths)+len(c.ExtraPublicPaths))
	out = append(out, c.PublicPaths...)
	return append(out, c.ExtraPublicPaths...)
}
