package config

import (
	"encoding/json"
	"os"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/flagx"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/timex"
)

// JsonConfig is the on-disk form of Config. Intervals use timex.Duration so
// both "1m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddr                 *string         `json:"endpoint_addr"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	DemoData                     *bool           `json:"demo_data"`
	LogFormat                    *string         `json:"log_format"`
	LogLevel                     *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config. Without either flag nothing is loaded. Only fields present in the
// file are overwritten. Panics if the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.DemoData != nil {
		config.DemoData = *c.DemoData
	}
	if c.LogFormat != nil {
		config.LogFormat = *c.LogFormat
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
}
