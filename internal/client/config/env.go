package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name, e.g. LEARNSPHERE_API_BASE_URL.
const EnvPrefix = "LEARNSPHERE_"

// parseEnv overlays cfg with LEARNSPHERE_* variables. Variables that are not
// set leave the current value untouched. A nil environ reads the process
// environment. Panics on malformed values, like the other loaders.
func parseEnv(cfg *Config, environ map[string]string) {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		panic(err)
	}
}
