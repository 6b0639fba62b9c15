package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
storage:
  type: minio
jwt:
  secret: short
`)
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 300, cfg.AI.MaxTokens)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 5, cfg.Progress.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Cache.OverviewTTL)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
  watch_config: true
database:
  driver: sqlite
  path: test.db
storage:
  type: minio
ai:
  provider: anthropic
  timeout: 3s
progress:
  max_retries: 0
cors:
  allowed_origins: ["http://localhost:5173"]
`)
	t.Setenv("AI_MODEL", "claude-test")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Server.WatchConfig)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "claude-test", cfg.AI.Model)
	assert.Equal(t, 3*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 1, cfg.Progress.MaxRetries)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigReleaseNeedsLongSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
storage:
  type: minio
jwt:
  secret: too-short
`)
	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := writeConfig(t, "storage:\n  type: minio\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_HOST=db.internal\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DATABASE_HOST") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}
