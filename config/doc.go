// Package config loads a service's configuration with viper: config.yml,
// then a dotenv file read by godotenv, then the process environment.
//
//	var cfg app.Config
//	err := config.LoadConfig("authgate", &cfg)
//
// Each key can be overridden by its upper-cased path, so token.access_ttl
// comes from TOKEN_ACCESS_TTL and server.port from SERVER_PORT.
package config
