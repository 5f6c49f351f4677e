package config

import (
	"encoding/json"
	"os"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/flagx"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Pointer fields distinguish "absent" from "zero" so a partial file only
// overrides what it names. Intervals use timex.Duration ("10s" or nanoseconds).
type JsonConfig struct {
	APIBaseURL        *string         `json:"api_base_url"`
	DatabasePath      *string         `json:"database_path"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	RefreshTimeout    *timex.Duration `json:"refresh_timeout"`
	LogoutTimeout     *timex.Duration `json:"logout_timeout"`
	SnapshotTTL       *timex.Duration `json:"snapshot_ttl"`
	SnapshotSecret    *string         `json:"snapshot_secret"`
	RequestsPerSecond *float64        `json:"requests_per_second"`
	LogFormat         *string         `json:"log_format"`
	LogLevel          *string         `json:"log_level"`
	MetricsEnabled    *bool           `json:"metrics_enabled"`
}

// parseJson overlays Config with values from the JSON file named by -c or
// -config. Without either flag nothing happens. Panics on read or unmarshal
// errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.SnapshotSecret, jc.SnapshotSecret)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RefreshTimeout != nil {
		cfg.RefreshTimeout = jc.RefreshTimeout.Duration
	}
	if jc.LogoutTimeout != nil {
		cfg.LogoutTimeout = jc.LogoutTimeout.Duration
	}
	if jc.SnapshotTTL != nil {
		cfg.SnapshotTTL = jc.SnapshotTTL.Duration
	}
	if jc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *jc.RequestsPerSecond
	}
	if jc.MetricsEnabled != nil {
		cfg.MetricsEnabled = *jc.MetricsEnabled
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
