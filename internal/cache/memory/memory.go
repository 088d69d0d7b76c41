package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/instancestore/internal/cache"
)

// Mem implementa cache.Cache sobre go-cache.
type Mem struct {
	c      *gocache.Cache
	prefix string
}

// New crea un cache en memoria con TTL por defecto y janitor cada minuto.
func New(defaultTTL time.Duration, prefix string) *Mem {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Mem{c: gocache.New(defaultTTL, time.Minute), prefix: prefix}
}

func (m *Mem) key(k string) string {
	if m.prefix == "" {
		return k
	}
	return m.prefix + ":" + k
}

func (m *Mem) Get(_ context.Context, k string) ([]byte, error) {
	v, ok := m.c.Get(m.key(k))
	if !ok {
		return nil, cache.ErrNotFound
	}
	b, _ := v.([]byte)
	return b, nil
}

func (m *Mem) Set(_ context.Context, k string, v []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	// copia: el caller puede reutilizar el slice
	buf := append([]byte(nil), v...)
	m.c.Set(m.key(k), buf, ttl)
	return nil
}

func (m *Mem) Delete(_ context.Context, k string) error {
	m.c.Delete(m.key(k))
	return nil
}

func (m *Mem) Ping(context.Context) error { return nil }

func (m *Mem) Close() error {
	m.c.Flush()
	return nil
}

// ItemCount incluye items expirados aún no barridos por el janitor.
func (m *Mem) ItemCount() int { return m.c.ItemCount() }

var _ cache.Cache = (*Mem)(nil)
