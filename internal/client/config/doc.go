// Package config loads runtime configuration for the Plant Disease Detector
// CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the detector API
//	-d string   local database file
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// The file may carry // comments. Durations are strings like "3s" or
// integer nanoseconds:
//
//	{
//	  // production API
//	  "server_base_url": "http://api.plantdetector.ru",
//	  "database_path": "/var/lib/plantdetector/client.db",
//	  "request_timeout": "30s",
//	  "online_check_interval": "5s",
//	  "log_level": "debug"
//	}
//
// This package does not read environment variables.
package config
