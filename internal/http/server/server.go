// Package server es la superficie HTTP operativa: readiness, vista de la
// instancia resuelta, mounts registrados y métricas.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/instancestore/internal/managed"
	"github.com/dropDatabas3/instancestore/internal/mount"
	"github.com/dropDatabas3/instancestore/internal/storage"
)

// Instance es lo que la superficie HTTP consulta de la Membership.
type Instance interface {
	managed.Querier
	Initialized() bool
	HostName() string
}

type Deps struct {
	Instance Instance
	Mounts   *mount.Registry
	Storage  *storage.VirtualStorage
	// Gatherer para /metrics; default prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// NewRouter arma el router chi con todas las rutas.
func NewRouter(d Deps) http.Handler {
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	h := &handlers{d: d}

	r := chi.NewRouter()
	r.Use(WithRecover, WithRequestID)

	// sin logging para health checks (muy frecuentes)
	r.Get("/readyz", h.readyz)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(WithLogging)
		r.Get("/v1/instance", h.instance)
		r.Get("/v1/mounts", h.mounts)
	})
	return r
}

type handlers struct{ d Deps }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	status := http.StatusOK
	switch {
	case !h.d.Instance.Initialized():
		resp["status"], status = "bootstrapping", http.StatusServiceUnavailable
	case h.d.Storage != nil && h.d.Storage.InMaintenance():
		resp["status"], status = "maintenance", http.StatusServiceUnavailable
	}
	resp["managed"] = h.d.Instance.IsManagedInstance()
	writeJSON(w, status, resp)
}

type instanceView struct {
	Host            string          `json:"host"`
	Managed         bool            `json:"managed"`
	InstanceName    string          `json:"instance_name,omitempty"`
	Paths           managed.PathSet `json:"paths"`
	SnapshotPath    string          `json:"snapshot_path,omitempty"`
	PrivatePathName string          `json:"private_path_name,omitempty"`
	ConsoleKey      bool            `json:"console_key"`
	Limits          map[string]any  `json:"limits"`
}

func (h *handlers) instance(w http.ResponseWriter, r *http.Request) {
	in := h.d.Instance
	_, hasKey := in.ConsoleKey()
	v := instanceView{
		Host:         in.HostName(),
		Managed:      in.IsManagedInstance(),
		InstanceName: in.InstanceName(),
		Paths:        in.Paths(),
		ConsoleKey:   hasKey,
		Limits:       in.Limits(),
	}
	if h.d.Storage != nil {
		v.SnapshotPath = h.d.Storage.SnapshotPath()
		v.PrivatePathName = h.d.Storage.PrivatePathName()
	}
	writeJSON(w, http.StatusOK, v)
}

type mountView struct {
	Tag    string `json:"tag"`
	Driver string `json:"driver"`
	Path   string `json:"path"`
}

func (h *handlers) mounts(w http.ResponseWriter, r *http.Request) {
	out := []mountView{}
	if h.d.Mounts != nil {
		for _, tag := range h.d.Mounts.Tags() {
			if c, ok := h.d.Mounts.Connection(tag); ok {
				out = append(out, mountView{Tag: tag, Driver: c.Driver, Path: c.Path})
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"mounts": out})
}

// Start sirve handler en addr hasta que ctx se cancele; luego apaga con un
// margen de 10s para los requests en curso.
func Start(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
