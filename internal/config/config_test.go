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
	t.Run("defaults without a config file", func(t *testing.T) {
		// When: loading from a path that does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults apply
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.False(t, conf.Redis.Enabled())
		assert.Equal(t, 24*time.Hour, conf.Redis.TTL)
		assert.Equal(t, Play{Skin: "plain", X: "human", O: "random"}, conf.Play)
	})

	t.Run("values from yaml", func(t *testing.T) {
		// Given: a config file
		path := filepath.Join(t.TempDir(), "config.yml")
		content := `
log-level: debug
http-port: "8080"
redis:
  host: cache
  port: "6380"
  ttl: 1h
play:
  skin: color
  x: random
  o: human
  seed: 42
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		conf, err := Load(path)

		// Then: every section is read
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.True(t, conf.Redis.Enabled())
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Redis.TTL)
		assert.Equal(t, Play{Skin: "color", X: "random", O: "human", Seed: 42}, conf.Play)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TTT_HTTP_PORT", "7070")
		t.Setenv("REDIS_HOST", "localhost")

		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("broken yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("log-level: [\n"), 0o600))

		_, err := Load(path)

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(path) })
	})
}
