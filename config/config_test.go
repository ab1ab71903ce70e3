package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "notification-service", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, int64(8080), cfg.Server.Port)
	assert.Equal(t, int64(1000), cfg.Websocket.MaxStreamLength)
	assert.Equal(t, 5*time.Second, cfg.Websocket.ReadBlock)
	assert.Equal(t, time.Second, cfg.Websocket.ErrorBackoff)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
app:
  name: notifier
  environment: staging
server:
  port: 9090
websocket:
  max_stream_length: 500
  read_block: 2s
  read_count: 25
  error_backoff: 250ms
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "notifier", cfg.App.Name)
	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, int64(9090), cfg.Server.Port)
	assert.Equal(t, int64(500), cfg.Websocket.MaxStreamLength)
	assert.Equal(t, 2*time.Second, cfg.Websocket.ReadBlock)
	assert.Equal(t, int64(25), cfg.Websocket.ReadCount)
	assert.Equal(t, 250*time.Millisecond, cfg.Websocket.ErrorBackoff)
	// untouched sections keep their defaults
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(8080), cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("PORT", "8888")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Environment)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, int64(8888), cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("websocket:\n  read_count: -1\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
