// Package config handles configuration for the development API server,
// including defaults, environment, JSON overlay and command-line flags.
package config

import "time"

// Config holds runtime settings for the LearnSphere development server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Empty picks a random one per run.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - DemoData: seed demo accounts and courses on start.
type Config struct {
	EndpointAddr                 string        `env:"ADDR"`
	SecretKey                    string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"REFRESH_TOKEN_TTL"`
	ShutdownTimeout              time.Duration `env:"SHUTDOWN_TIMEOUT"`
	DemoData                     bool          `env:"DEMO_DATA"`
	LogFormat                    string        `env:"LOG_FORMAT"`
	LogLevel                     string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// Short token lifetimes make refresh behaviour easy to observe.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":5000"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.RefreshTokenValidityDuration = 30 * time.Minute
	c.ShutdownTimeout = 5 * time.Second
	c.DemoData = true
	c.LogFormat = "json"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, nil)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
