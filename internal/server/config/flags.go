package config

import (
	"flag"
	"io"
	"os"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/flagx"
)

var knownFlags = []string{"-a", "-s", "-t", "-r", "-demo", "-l", "-f"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":5000")
//	-s string     JWT HMAC secret key
//	-t duration   access token validity
//	-r duration   refresh token validity
//	-demo bool    seed demo data (use -demo=false to start empty)
//	-l string     log level
//	-f string     log format (console, json, text)
//
// os.Args is filtered with flagx.FilterArgs first, avoiding collisions with
// the -c config flag.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.DurationVar(&config.RefreshTokenValidityDuration, "r", config.RefreshTokenValidityDuration, "refresh token validity")
	fs.BoolVar(&config.DemoData, "demo", config.DemoData, "seed demo data")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
