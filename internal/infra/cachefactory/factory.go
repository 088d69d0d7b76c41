// Package cachefactory abre el cache de snapshots según la configuración.
package cachefactory

import (
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/instancestore/internal/cache"
	cmem "github.com/dropDatabas3/instancestore/internal/cache/memory"
	credis "github.com/dropDatabas3/instancestore/internal/cache/redis"
)

type Config struct {
	Kind  string // memory | redis
	Redis struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}
	Memory struct{ DefaultTTL string }
}

// Open crea el cache. Un kind desconocido es error de configuración.
func Open(cfg Config) (cache.Cache, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "redis":
		c, err := credis.New(credis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case "memory", "":
		d, _ := time.ParseDuration(cfg.Memory.DefaultTTL)
		if d == 0 {
			d = 5 * time.Minute
		}
		return cmem.New(d, ""), nil
	default:
		return nil, fmt.Errorf("cachefactory: unsupported cache kind %q", cfg.Kind)
	}
}
