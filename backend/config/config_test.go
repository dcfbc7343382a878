package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
backend:
  port: 9500
  db:
    driver: mysql
    name: blx
  redis:
    addr: 127.0.0.1:6379
  storage:
    link_ttl: 0s
  jwt:
    secret: s3cret
`), 0o644))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9500", cfg.HTTP.Addr())
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "blx", cfg.DB.Name)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.Storage.LinkTTL, "zero ttl falls back to ten minutes")
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "banglaixanh", cfg.JWT.Issuer)
	assert.Equal(t, 60, cfg.JWT.ExpMin)
	assert.Equal(t, "admin", cfg.Admin.Username)
}
