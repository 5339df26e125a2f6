package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	// Given: a config file
	path := writeConfig(t, `
log-level: debug
server:
  url: ws://0.0.0.0:8000/ws
  handshake-timeout: 3s
  strict-events: true
player:
  name: Alice
  strategy: survivor
redis:
  addr: localhost:6379
`)

	// When: it is loaded
	conf, err := Load(path)

	// Then: file values and defaults are combined
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, "text", conf.LogFormat)
	assert.Equal(t, "ws://0.0.0.0:8000/ws", conf.Server.URL)
	assert.Equal(t, 3*time.Second, conf.Server.HandshakeTimeout)
	assert.Equal(t, 16, conf.Server.SendBuffer)
	assert.True(t, conf.Server.StrictEvents)
	assert.Equal(t, "Alice", conf.Player.Name)
	assert.Equal(t, "default", conf.Player.Profile)
	assert.Equal(t, "survivor", conf.Player.Strategy)
	assert.Equal(t, "localhost:6379", conf.Redis.Addr)
	assert.Equal(t, "snakes:transcript", conf.Redis.Stream)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "player:\n  name: Alice\n")
	t.Setenv("SNAKES_PLAYER_NAME", "Bob")

	conf, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Bob", conf.Player.Name)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("SNAKES_SERVER_URL", "localhost:8000")

	conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

	require.NoError(t, err)
	assert.Equal(t, "localhost:8000", conf.Server.URL)
	assert.Equal(t, 10*time.Second, conf.Server.HandshakeTimeout)
	assert.Equal(t, "clockwise", conf.Player.Strategy)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  send-buffer: -1\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "server:\n  handshake-timeout: -1s\n"))
	require.Error(t, err)

	require.Panics(t, func() {
		MustLoad(writeConfig(t, "server: [unclosed"))
	})
}
