package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name, e.g. LEARNSPHERE_SERVER_ADDR.
const EnvPrefix = "LEARNSPHERE_SERVER_"

// parseEnv overlays cfg with LEARNSPHERE_SERVER_* variables. A nil environ
// reads the process environment. Panics on malformed values.
func parseEnv(cfg *Config, environ map[string]string) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		panic(err)
	}
}
