// Package config loads runtime configuration for the nexusauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c or -config, or the
//     NEXUS_CLIENT_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     URL of the server's auth endpoint
//	-f string     local database file
//	-t duration   request timeout (e.g. "5s")
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so the timeout can be either a string
// like "5s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080/api/auth",
//	  "database_path": "nexus.db",
//	  "request_timeout": "10s"
//	}
package config
