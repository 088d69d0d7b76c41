// Package metrics define los collectors Prometheus del proceso. Viven en un
// paquete propio para que managed, mount y http los compartan sin ciclos.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Discovery = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "instancestore_discovery_total",
		Help: "Bootstraps de membership por resultado (cached, managed, unmanaged, failed)",
	}, []string{"outcome"})

	ConsoleRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "instancestore_console_requests_total",
		Help: "Llamadas al console API por resultado (ok, error)",
	}, []string{"result"})

	ConsoleLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "instancestore_console_latency_ms",
		Help:    "Latencia de las llamadas al console en milisegundos",
		Buckets: prometheus.ExponentialBuckets(5, 2, 12),
	})

	SnapshotCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "instancestore_snapshot_cache_total",
		Help: "Accesos al cache de snapshots (hit, miss, write, error)",
	}, []string{"result"})

	Mounts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "instancestore_mount_resolutions_total",
		Help: "Resoluciones de mounts (created, reused, failed, unmounted)",
	}, []string{"result"})

	MountedTags = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "instancestore_mounted_tags",
		Help: "Tags registrados en el mount registry",
	})
)

func all() []prometheus.Collector {
	return []prometheus.Collector{Discovery, ConsoleRequests, ConsoleLatency, SnapshotCache, Mounts, MountedTags}
}

// Register registra los collectors en reg (o en el default si es nil).
// Registrar dos veces no es error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range all() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}
