package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/nexusauth/internal/client/config"
)

func TestNewApp_OpensLocalDB(t *testing.T) {
	cfg := &config.Config{
		ServerURL:      "http://127.0.0.1:1/api/auth",
		DatabasePath:   filepath.Join(t.TempDir(), "sub", "nexus.db"),
		RequestTimeout: time.Second,
	}

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.NotNil(t, app.authService)
	assert.False(t, app.isLoggedIn())
	assert.Empty(t, app.getStatus())

	_, err = app.authService.CurrentUser(context.Background())
	assert.Error(t, err)
}

func TestNewApp_BadPath(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DatabasePath: dir}

	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}
