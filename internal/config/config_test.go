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

	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 8081, cfg.RPCPort)
	assert.Equal(t, ":memory:", cfg.DatabaseURL)
	assert.True(t, cfg.ArchiveEnabled)
	assert.Equal(t, "", cfg.PolicyFile)
	assert.True(t, cfg.RenderEnabled)
	assert.Equal(t, 30*time.Second, cfg.PingInterval)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, time.Minute, cfg.ReadTimeout)
	assert.Equal(t, int64(65536), cfg.MaxMessageSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRANSPORT", "HTTP")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ARCHIVE_ENABLED", "false")
	t.Setenv("WS_PING_INTERVAL_MS", "500")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.False(t, cfg.ArchiveEnabled)
	assert.Equal(t, 500*time.Millisecond, cfg.PingInterval)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: http\nrpc_port: 9191\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 9191, cfg.RPCPort)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		t.Setenv("TRANSPORT", "carrier-pigeon")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("port", func(t *testing.T) {
		t.Setenv("TRANSPORT", "http")
		t.Setenv("HTTP_PORT", "70000")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
