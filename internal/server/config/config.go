// Package config handles configuration for the server component: defaults,
// an optional JSON file, NEXUS_* environment variables (a .env file is
// loaded first) and command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the nexusauth server.
//
// Fields:
//   - Address / Path: HTTP listen address and the auth endpoint path.
//   - Store: credential store backend (file, memory, sqlite, postgres).
//   - UsersFile: JSON file used by the file backend.
//   - DatabaseDSN: DSN for the sqlite and postgres backends.
//   - RateRPS / RateBurst: per-IP rate limit, RateRPS <= 0 disables it.
//   - RequireVerified: refuse logins until the email is verified.
//   - SMTP*: verification mail settings; an empty host logs tokens instead.
type Config struct {
	Address         string
	Path            string
	Store           string
	UsersFile       string
	DatabaseDSN     string
	LogLevel        string
	RateRPS         float64
	RateBurst       int
	RequireVerified bool
	ShutdownTimeout time.Duration
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	SMTPFrom        string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Address = ":8080"
	c.Path = "/api/auth"
	c.Store = "file"
	c.UsersFile = "data/users.json"
	c.DatabaseDSN = ""
	c.LogLevel = "info"
	c.RateRPS = 5
	c.RateBurst = 10
	c.RequireVerified = false
	c.ShutdownTimeout = 5 * time.Second
	c.SMTPHost = ""
	c.SMTPPort = 587
	c.SMTPFrom = "no-reply@nexusauth.local"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
