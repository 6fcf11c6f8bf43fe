package config

import "time"

// Config holds runtime settings for the nexusauth CLI.
//
// Fields:
//   - ServerURL: full URL of the server's auth endpoint.
//   - DatabasePath: sqlite file holding the session cache.
//   - RequestTimeout: upper bound for one server round trip.
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api/auth"
	c.DatabasePath = "nexus.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
