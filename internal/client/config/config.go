package config

import (
	"time"
)

// Config holds runtime settings for the LearnSphere CLI and its session
// manager.
//
// Units: every interval is a time.Duration.
type Config struct {
	// APIBaseURL is the LearnSphere API root, e.g. http://localhost:5000/api.
	APIBaseURL string `env:"API_BASE_URL"`
	// DatabasePath is the SQLite file holding the session snapshot.
	DatabasePath string `env:"DATABASE_PATH"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	RefreshTimeout time.Duration `env:"REFRESH_TIMEOUT"`
	LogoutTimeout  time.Duration `env:"LOGOUT_TIMEOUT"`
	SnapshotTTL    time.Duration `env:"SNAPSHOT_TTL"`

	// SnapshotSecret, when set, seals the stored snapshot.
	SnapshotSecret string `env:"SNAPSHOT_SECRET"`

	// RequestsPerSecond throttles outgoing calls; zero disables throttling.
	RequestsPerSecond float64 `env:"REQUESTS_PER_SECOND"`

	LogFormat      string `env:"LOG_FORMAT"`
	LogLevel       string `env:"LOG_LEVEL"`
	MetricsEnabled bool   `env:"METRICS_ENABLED"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.DatabasePath = "learnsphere.db"
	c.RequestTimeout = 15 * time.Second
	c.RefreshTimeout = 10 * time.Second
	c.LogoutTimeout = 5 * time.Second
	c.SnapshotTTL = 7 * 24 * time.Hour
	c.SnapshotSecret = ""
	c.RequestsPerSecond = 0
	c.LogFormat = "console"
	c.LogLevel = "info"
	c.MetricsEnabled = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, a JSON file (if given) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, nil)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
