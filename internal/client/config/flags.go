package config

import (
	"flag"
	"io"
	"os"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-t", "-r", "-s", "-l", "-f", "-m"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string    API base URL
//	-d string    snapshot database path
//	-t duration  per-request timeout
//	-r duration  refresh timeout
//	-s string    snapshot secret
//	-l string    log level
//	-f string    log format (console, json, text)
//	-m bool      expose metrics
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "LearnSphere API base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the session database")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.DurationVar(&cfg.RefreshTimeout, "r", cfg.RefreshTimeout, "token refresh timeout")
	fs.StringVar(&cfg.SnapshotSecret, "s", cfg.SnapshotSecret, "secret used to seal the stored session")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")
	fs.BoolVar(&cfg.MetricsEnabled, "m", cfg.MetricsEnabled, "collect metrics")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
