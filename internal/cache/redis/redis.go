package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/instancestore/internal/cache"
)

// Config de conexión al redis compartido.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Cache implementa cache.Cache sobre go-redis.
type Cache struct {
	c      *rdb.Client
	prefix string
}

// New crea el cliente y verifica la conexión con un PING (5s).
func New(cfg Config) (*Cache, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	c := rdb.NewClient(&rdb.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}
	return &Cache{c: c, prefix: cfg.Prefix}, nil
}

func (r *Cache) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Cache) Get(ctx context.Context, k string) ([]byte, error) {
	b, err := r.c.Get(ctx, r.key(k)).Bytes()
	if errors.Is(err, rdb.Nil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache: redis get: %w", err)
	}
	return b, nil
}

func (r *Cache) Set(ctx context.Context, k string, v []byte, ttl time.Duration) error {
	if err := r.c.Set(ctx, r.key(k), v, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

func (r *Cache) Delete(ctx context.Context, k string) error {
	return r.c.Del(ctx, r.key(k)).Err()
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

var _ cache.Cache = (*Cache)(nil)
