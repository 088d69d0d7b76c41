package managed

import (
	"context"
	"encoding/json"

	"github.com/dropDatabas3/instancestore/internal/cache"
	"github.com/dropDatabas3/instancestore/internal/metrics"
	"github.com/dropDatabas3/instancestore/internal/observability/logger"
)

// snapshot es lo que se cachea bajo "<prefix><host>".
type snapshot struct {
	Paths  PathSet        `json:"paths"`
	Config InstanceConfig `json:"config"`
}

func (m *Membership) loadCachedValues(ctx context.Context, key string) (*snapshot, bool) {
	if m.cache == nil {
		return nil, false
	}
	raw, err := m.cache.Get(ctx, key)
	if err != nil {
		if cache.IsNotFound(err) {
			metrics.SnapshotCache.WithLabelValues("miss").Inc()
		} else {
			metrics.SnapshotCache.WithLabelValues("error").Inc()
			m.log.Warn("snapshot cache read failed", logger.CacheKey(key), logger.Err(err))
		}
		return nil, false
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		metrics.SnapshotCache.WithLabelValues("error").Inc()
		m.log.Warn("snapshot cache entry undecodable", logger.CacheKey(key), logger.Err(err))
		return nil, false
	}
	if len(snap.Paths) == 0 || snap.Config.empty() {
		metrics.SnapshotCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.SnapshotCache.WithLabelValues("hit").Inc()
	return &snap, true
}

// freshenCache guarda el snapshot. Un error de cache no invalida el bootstrap.
func (m *Membership) freshenCache(ctx context.Context, key string, snap *snapshot) {
	if m.cache == nil {
		return
	}
	b, err := json.Marshal(snap)
	if err == nil {
		err = m.cache.Set(ctx, key, b, m.opts.CacheTTL)
	}
	if err != nil {
		metrics.SnapshotCache.WithLabelValues("error").Inc()
		m.log.Warn("snapshot cache write failed", logger.CacheKey(key), logger.Err(err))
		return
	}
	metrics.SnapshotCache.WithLabelValues("write").Inc()
}
