package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("NEXUS_CONFIG", "")

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"address":          "www.example:9000",
		"path":             "/auth",
		"store":            "postgres",
		"users_file":       "/var/lib/users.json",
		"database_dsn":     "postgres://db",
		"log_level":        "debug",
		"rate_rps":         0,
		"rate_burst":       3,
		"require_verified": true,
		"shutdown_timeout": "10s",
		"smtp_host":        "smtp.example.com",
		"smtp_port":        2525,
		"smtp_user":        "mailer",
		"smtp_password":    "secret",
		"smtp_from":        "auth@example.com",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.Address)
		assert.Equal(t, "/auth", cfg.Path)
		assert.Equal(t, "postgres", cfg.Store)
		assert.Equal(t, "/var/lib/users.json", cfg.UsersFile)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 0.0, cfg.RateRPS, "explicit zero disables the limiter")
		assert.Equal(t, 3, cfg.RateBurst)
		assert.True(t, cfg.RequireVerified)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
		assert.Equal(t, 2525, cfg.SMTPPort)
		assert.Equal(t, "mailer", cfg.SMTPUser)
		assert.Equal(t, "secret", cfg.SMTPPassword)
		assert.Equal(t, "auth@example.com", cfg.SMTPFrom)
	})

	t.Run("env names the file", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("NEXUS_CONFIG", pathFlag)

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.Address)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"log_level": "warn"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, ":8080", cfg.Address)
		assert.Equal(t, 5.0, cfg.RateRPS)
		assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("no config and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{Address: "defaults:1234", Store: "memory"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.Address)
		assert.Equal(t, "memory", cfg.Store)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
