// Package cache define el cache TTL donde se guarda el snapshot {paths, config}
// de una instancia managed.
//
// Drivers:
//   - memory (go-cache, in-process; un solo worker o tests)
//   - redis  (compartido entre workers del mismo host)
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache es un key/value con TTL.
type Cache interface {
	// Get retorna ErrNotFound si la key no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set guarda value con ttl. ttl 0 usa el default del driver.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	Close() error
}

// ErrNotFound indica cache miss.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es un cache miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
