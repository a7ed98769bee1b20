package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		// Given: no config file
		path := filepath.Join(t.TempDir(), "missing.yml")

		// When: loading
		conf, err := Load(path)

		// Then: defaults apply
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, InterfaceConsole, conf.Interface)
		assert.Equal(t, "pvc", conf.Game.Mode)
		assert.Equal(t, "hard", conf.Game.Difficulty)
		assert.Equal(t, 5*time.Second, conf.Voice.Timeout)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Values from the file", func(t *testing.T) {
		// Given: a config file
		path := filepath.Join(t.TempDir(), "config.yml")
		content := `
log-level: debug
interface: http
http-port: "8080"
game:
  mode: pvp
  human-mark: o
voice:
  timeout: 2s
redis:
  enabled: true
  host: redis
  port: "6380"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading
		conf, err := Load(path)

		// Then: file values win over defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, InterfaceHTTP, conf.Interface)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "pvp", conf.Game.Mode)
		assert.Equal(t, "o", conf.Game.HumanMark)
		assert.Equal(t, 2*time.Second, conf.Voice.Timeout)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Env overrides", func(t *testing.T) {
		// Given: an env variable
		t.Setenv("GAME_DIFFICULTY", "easy")

		// When: loading without a file
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: env value is used
		require.NoError(t, err)
		assert.Equal(t, "easy", conf.Game.Difficulty)
	})

	t.Run("Broken file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("voice: ["), 0o600))

		_, err := Load(path)

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(path) })
	})
}
