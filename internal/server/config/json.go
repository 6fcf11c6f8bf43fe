package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/nexusauth/internal/flagx"
	"github.com/dmitrijs2005/nexusauth/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "5s" or
// integer nanoseconds. Absent keys leave the current value alone.
type JsonConfig struct {
	Address         string         `json:"address"`
	Path            string         `json:"path"`
	Store           string         `json:"store"`
	UsersFile       string         `json:"users_file"`
	DatabaseDSN     string         `json:"database_dsn"`
	LogLevel        string         `json:"log_level"`
	RateRPS         *float64       `json:"rate_rps"`
	RateBurst       *int           `json:"rate_burst"`
	RequireVerified *bool          `json:"require_verified"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	SMTPHost        string         `json:"smtp_host"`
	SMTPPort        int            `json:"smtp_port"`
	SMTPUser        string         `json:"smtp_user"`
	SMTPPassword    string         `json:"smtp_password"`
	SMTPFrom        string         `json:"smtp_from"`
}

// parseJson loads the file named by -c/-config (or NEXUS_CONFIG) into
// config. It panics when the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:], "NEXUS_CONFIG")

	// nothing to load
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

	setString(&config.Address, c.Address)
	setString(&config.Path, c.Path)
	setString(&config.Store, c.Store)
	setString(&config.UsersFile, c.UsersFile)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	if c.RateRPS != nil {
		config.RateRPS = *c.RateRPS
	}
	if c.RateBurst != nil {
		config.RateBurst = *c.RateBurst
	}
	if c.RequireVerified != nil {
		config.RequireVerified = *c.RequireVerified
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = time.Duration(c.ShutdownTimeout.Duration)
	}
	setString(&config.SMTPHost, c.SMTPHost)
	if c.SMTPPort > 0 {
		config.SMTPPort = c.SMTPPort
	}
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFrom, c.SMTPFrom)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
