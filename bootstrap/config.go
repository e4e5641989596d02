package bootstrap

import "github.com/kbukum/authgate/config"

// Config is satisfied by any struct that embeds config.ServiceConfig. Types
// that override ApplyDefaults or Validate must still call the embedded ones.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
