package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/instancestore/internal/mount"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, mount.DriverLocal, c.Mounts.DefaultDriver)
	assert.Equal(t, 5*time.Minute, Duration(c.Managed.CacheTTL))
	assert.NoError(t, c.Validate())
}

func TestLoadYAMLWithMounts(t *testing.T) {
	p := writeFile(t, "config.yaml", `
app:
  app_env: prod
managed:
  host_name: acme.cloud.example.com
  cache_ttl: 90s
database:
  driver: sqlite
  database: /tmp/app.db
mounts:
  default_driver: memory
  connections:
    snapshots:
      root: /data/snapshots
      prefix: acme
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "prod", c.App.Env)
	assert.Equal(t, "acme.cloud.example.com", c.Managed.HostName)
	assert.Equal(t, 90*time.Second, Duration(c.Managed.CacheTTL))
	assert.Equal(t, "sqlite", c.Database["driver"])
	assert.Equal(t, mount.DriverMemory, c.Mounts.DefaultDriver)
	assert.Equal(t, mount.Config{Root: "/data/snapshots", Prefix: "acme"}, c.Mounts.Connections["snapshots"])
}

func TestLoadRejectsUnknownMountKeys(t *testing.T) {
	p := writeFile(t, "config.yaml", "mounts:\n  connections:\n    x:\n      path: /x\n      bucket: y\n")
	_, err := Load(p)
	assert.ErrorIs(t, err, mount.ErrUnknownKey)
}

func TestLoadConnectionsFile(t *testing.T) {
	conns := writeFile(t, "mounts.yaml", "archive:\n  driver: zip\n  path: /data/a.zip\n")
	p := writeFile(t, "config.yaml", "mounts:\n  connections:\n    snapshots:\n      path: /s\n  connections_file: "+conns+"\n")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Len(t, c.Mounts.Connections, 2)
	assert.Equal(t, mount.DriverZip, c.Mounts.Connections["archive"].Driver)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("MANAGED_CACHE_TTL", "1m")
	t.Setenv("CACHE_KIND", "REDIS")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	c, err := Load("")
	require.NoError(t, err)

	assert.True(t, c.App.Debug)
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, time.Minute, Duration(c.Managed.CacheTTL))
	assert.Equal(t, "redis", c.Cache.Kind)
	assert.Equal(t, 3, c.Cache.Redis.DB)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	c.Cache.Kind = "redis"
	c.Managed.ConsoleTimeout = "soon"
	c.Mounts.DefaultDriver = "s3"

	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.redis.addr")
	assert.Contains(t, err.Error(), "managed.console_timeout")
	assert.Contains(t, err.Error(), "mounts.default_driver")
}
