package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// envFiles are loaded into the environment before NEXUS_* variables are
// read. Variables already set win over the file.
var envFiles = []string{".env"}

// loadDotEnv is a seam for tests.
var loadDotEnv = func(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			panic(err)
		}
	}
}

// parseEnv overlays NEXUS_* environment variables. Malformed numbers or
// booleans panic, like malformed flags do.
func parseEnv(config *Config) {
	loadDotEnv(envFiles...)

	envString(&config.Address, "NEXUS_ADDR")
	envString(&config.Path, "NEXUS_PATH")
	envString(&config.Store, "NEXUS_STORE")
	envString(&config.UsersFile, "NEXUS_USERS_FILE")
	envString(&config.DatabaseDSN, "NEXUS_DSN")
	envString(&config.LogLevel, "NEXUS_LOG_LEVEL")
	envString(&config.SMTPHost, "NEXUS_SMTP_HOST")
	envString(&config.SMTPUser, "NEXUS_SMTP_USER")
	envString(&config.SMTPPassword, "NEXUS_SMTP_PASSWORD")
	envString(&config.SMTPFrom, "NEXUS_SMTP_FROM")

	if v, ok := os.LookupEnv("NEXUS_RATE_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		config.RateRPS = f
	}
	envInt(&config.RateBurst, "NEXUS_RATE_BURST")
	envInt(&config.SMTPPort, "NEXUS_SMTP_PORT")

	if v, ok := os.LookupEnv("NEXUS_REQUIRE_VERIFIED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.RequireVerified = b
	}
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}
