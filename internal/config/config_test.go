package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/usersapi/internal/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "usersapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	want := config.Default()
	assert.Empty(t, cfg.CORS.AllowOrigins)
	cfg.CORS = want.CORS
	assert.Equal(t, want, *cfg)
}

func TestLoad_file(t *testing.T) {
	path := writeFile(t, `
server:
  addr: 127.0.0.1:9000
  shutdown_timeout: 3s
log:
  level: debug
  format: console
docs:
  title: people
cors:
  allow_origins:
    - https://a.example
    - https://b.example
rate_limit:
  enabled: true
  rps: 2.5
store:
  seed: false
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "people", cfg.Docs.Title)
	assert.Equal(t, "1.0.0", cfg.Docs.Version)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.InDelta(t, 2.5, cfg.RateLimit.RPS, 0)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.False(t, cfg.Store.Seed)
}

func TestLoad_env(t *testing.T) {
	path := writeFile(t, "server:\n  addr: :9000\n")

	t.Setenv("USERSAPI_SERVER_ADDR", ":7000")
	t.Setenv("USERSAPI_SERVER_BODY_LIMIT", "2048")
	t.Setenv("USERSAPI_LOG_LEVEL", "warn")
	t.Setenv("USERSAPI_DOCS_UI", "false")
	t.Setenv("USERSAPI_CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr, "environment beats file")
	assert.Equal(t, int64(2048), cfg.Server.BodyLimit)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Docs.UI)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
}

func TestLoad_missingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_invalid(t *testing.T) {
	t.Setenv("USERSAPI_LOG_LEVEL", "loud")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Log.Level")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate func(*config.Config)
		field  string
	}{
		"empty addr": {
			mutate: func(c *config.Config) { c.Server.Addr = "" },
			field:  "Config.Server.Addr",
		},
		"zero body limit": {
			mutate: func(c *config.Config) { c.Server.BodyLimit = 0 },
			field:  "Config.Server.BodyLimit",
		},
		"unknown format": {
			mutate: func(c *config.Config) { c.Log.Format = "xml" },
			field:  "Config.Log.Format",
		},
		"empty title": {
			mutate: func(c *config.Config) { c.Docs.Title = "" },
			field:  "Config.Docs.Title",
		},
		"zero burst": {
			mutate: func(c *config.Config) { c.RateLimit.Burst = 0 },
			field:  "Config.RateLimit.Burst",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(&cfg)

			err := config.Validate(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	d := config.Default()
	assert.NoError(t, config.Validate(&d))
}
