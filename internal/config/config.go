package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/instancestore/internal/mount"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
		// fuerza rediscovery en cada arranque (ignora el snapshot cacheado)
		Debug bool `yaml:"debug"`
	} `yaml:"app"`

	Log struct {
		Level       string `yaml:"level"`
		ServiceName string `yaml:"service_name"`
	} `yaml:"log"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Managed struct {
		ManifestFile   string `yaml:"manifest_file"`
		StartDir       string `yaml:"start_dir"`
		HostName       string `yaml:"host_name"`
		CacheTTL       string `yaml:"cache_ttl"`
		CachePrefix    string `yaml:"cache_prefix"`
		ConsoleTimeout string `yaml:"console_timeout"`
		LogDirName     string `yaml:"log_dir_name"`
	} `yaml:"managed"`

	Storage struct {
		LocalPath         string `yaml:"local_path"`
		PrivatePathName   string `yaml:"private_path_name"`
		SnapshotPathName  string `yaml:"snapshot_path_name"`
		TempDir           string `yaml:"temp_dir"`
		MaintenanceMarker string `yaml:"maintenance_marker"`
	} `yaml:"storage"`

	// Database es la DB de una instancia standalone; una instancia managed
	// usa la que devuelve el console.
	Database map[string]any `yaml:"database"`

	Cache struct {
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Mounts struct {
		DefaultDriver string                  `yaml:"default_driver"`
		Connections   map[string]mount.Config `yaml:"connections"`
		// ConnectionsFile es un YAML aparte nombre → conexión; se mezcla
		// sobre Connections.
		ConnectionsFile string `yaml:"connections_file"`
	} `yaml:"mounts"`
}

// Load lee path (vacío = solo defaults), aplica defaults y env overrides.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if c.Mounts.ConnectionsFile != "" {
		if err := c.loadConnectionsFile(c.Mounts.ConnectionsFile); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.ServiceName == "" {
		c.Log.ServiceName = "instancestore"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Managed.CacheTTL == "" {
		c.Managed.CacheTTL = "5m"
	}
	if c.Managed.ConsoleTimeout == "" {
		c.Managed.ConsoleTimeout = "30s"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "5m"
	}
	if c.Mounts.DefaultDriver == "" {
		c.Mounts.DefaultDriver = mount.DriverLocal
	}
}

func (c *Config) loadConnectionsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("mount connections: %w", err)
	}
	defer f.Close()
	conns, err := mount.DecodeConnections(f)
	if err != nil {
		return fmt.Errorf("mount connections %s: %w", path, err)
	}
	if c.Mounts.Connections == nil {
		c.Mounts.Connections = map[string]mount.Config{}
	}
	for name, conn := range conns {
		c.Mounts.Connections[name] = conn
	}
	return nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvBool("APP_DEBUG"); ok {
		c.App.Debug = v
	}

	// LOG
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}

	// MANAGED
	if v, ok := getEnvStr("MANAGED_MANIFEST_FILE"); ok {
		c.Managed.ManifestFile = v
	}
	if v, ok := getEnvStr("MANAGED_START_DIR"); ok {
		c.Managed.StartDir = v
	}
	if v, ok := getEnvStr("MANAGED_HOST_NAME"); ok {
		c.Managed.HostName = v
	}
	if v, ok := getEnvDur("MANAGED_CACHE_TTL"); ok {
		c.Managed.CacheTTL = v.String()
	}
	if v, ok := getEnvStr("MANAGED_CACHE_PREFIX"); ok {
		c.Managed.CachePrefix = v
	}
	if v, ok := getEnvDur("MANAGED_CONSOLE_TIMEOUT"); ok {
		c.Managed.ConsoleTimeout = v.String()
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_LOCAL_PATH"); ok {
		c.Storage.LocalPath = v
	}
	if v, ok := getEnvStr("STORAGE_PRIVATE_PATH_NAME"); ok {
		c.Storage.PrivatePathName = v
	}
	if v, ok := getEnvStr("STORAGE_SNAPSHOT_PATH_NAME"); ok {
		c.Storage.SnapshotPathName = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// MOUNTS
	if v, ok := getEnvStr("MOUNTS_DEFAULT_DRIVER"); ok {
		c.Mounts.DefaultDriver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("MOUNTS_CONNECTIONS_FILE"); ok {
		c.Mounts.ConnectionsFile = v
	}
}

// Validate revisa los valores que no se pueden corregir con un default.
func (c *Config) Validate() error {
	var errs []error
	for name, v := range map[string]string{
		"managed.cache_ttl":        c.Managed.CacheTTL,
		"managed.console_timeout":  c.Managed.ConsoleTimeout,
		"cache.memory.default_ttl": c.Cache.Memory.DefaultTTL,
	} {
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", name, v))
		}
	}
	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required when cache.kind=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind: unsupported %q", c.Cache.Kind))
	}
	switch c.Mounts.DefaultDriver {
	case mount.DriverLocal, mount.DriverReadOnlyLocal, mount.DriverMemory, mount.DriverZip:
	default:
		errs = append(errs, fmt.Errorf("mounts.default_driver: unsupported %q", c.Mounts.DefaultDriver))
	}
	return errors.Join(errs...)
}

// Duration parsea un campo ya validado; cero si no parsea.
func Duration(v string) time.Duration {
	d, _ := time.ParseDuration(strings.TrimSpace(v))
	return d
}
