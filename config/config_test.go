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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  debug: true
  admin_key: topsecret
database:
  mode: mysql
  mysql_dsn: user:pass@tcp(localhost:3306)/questy
store:
  mode: db
security:
  jwt_secret: hush
  rate_limit_rps: 50
engine:
  definitions_dir: ./defs
  save_interval_s: 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "topsecret", cfg.Server.AdminKey)
	assert.Equal(t, "mysql", cfg.Database.Mode)
	assert.Equal(t, "db", cfg.Store.Mode)
	assert.Equal(t, "hush", cfg.Security.JWTSecret)
	assert.Equal(t, 50.0, cfg.Security.RateLimitRPS)
	assert.Equal(t, "./defs", cfg.Engine.DefinitionsDir)
	assert.Equal(t, 60, cfg.Engine.SaveIntervalS)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
security:
  jwt_secret: hush
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Server.Debug)
	assert.Equal(t, "sqlite", cfg.Database.Mode)
	assert.Equal(t, "file", cfg.Store.Mode)
	assert.Equal(t, "./data/progress", cfg.Store.Dir)
	assert.Equal(t, 72*time.Hour, cfg.Security.JWTTTLH)
	assert.Equal(t, 100.0, cfg.Security.RateLimitRPS)
	assert.Equal(t, 200, cfg.Security.RateLimitBurst)
	assert.Equal(t, 30*time.Second, cfg.Cache.LocalGCInterval)
	assert.Equal(t, 300, cfg.Engine.SaveIntervalS)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
