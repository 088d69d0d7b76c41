package logger

import (
	"time"

	"go.uber.org/zap"
)

// ---- HTTP ----

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// ---- Cluster / instancia ----

// Host es el host name con el que se resolvió la instancia.
func Host(v string) zap.Field { return zap.String("host", v) }

// InstanceName es el nombre lógico (host sin el default domain).
func InstanceName(v string) zap.Field { return zap.String("instance", v) }

// CacheKey identifica la entrada {paths, config} en el cache.
func CacheKey(v string) zap.Field { return zap.String("cache_key", v) }

// URL del console u otro endpoint remoto.
func URL(v string) zap.Field { return zap.String("url", v) }

// ---- Storage / mounts ----

func Path(v string) zap.Field   { return zap.String("path", v) }
func Tag(v string) zap.Field    { return zap.String("tag", v) }
func Mount(v string) zap.Field  { return zap.String("mount", v) }
func Driver(v string) zap.Field { return zap.String("driver", v) }

// ---- Sistema ----

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

func String(key, v string) zap.Field  { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
