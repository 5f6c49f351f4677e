// Package config loads runtime configuration for the LearnSphere CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with LEARNSPHERE_ (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via -c or -config.
//  4. Command-line flags (see parseFlags), which override everything else.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds. Absent keys keep the previous value:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "database_path": "learnsphere.db",
//	  "refresh_timeout": "10s",
//	  "snapshot_ttl": "168h",
//	  "log_format": "json"
//	}
package config
