// Package mount registra handles de filesystem por tag. La primera
// resolución de un tag gana: llamadas posteriores devuelven el mismo handle
// sin volver a mezclar configuración.
package mount

import (
	"io"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/dropDatabas3/instancestore/internal/metrics"
	"github.com/dropDatabas3/instancestore/internal/observability/logger"
)

// Mount es un handle resuelto. Embebe el Fs del driver.
type Mount struct {
	afero.Fs

	Tag    string
	Config Config

	closer io.Closer
}

// Close libera el recurso del driver, si lo hay. El registry no lo llama.
func (m *Mount) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

// RegistryConfig configura un Registry.
type RegistryConfig struct {
	// Connections son las conexiones estáticas por nombre de mount.
	Connections   map[string]Config
	DefaultDriver string  // default: local
	Factory       Factory // default: DriverFactory{}
	Logger        *zap.Logger
}

// Registry es la tabla tag → handle. Un único mutex cubre lookup e insert.
type Registry struct {
	static        map[string]Config
	defaultDriver string
	factory       Factory
	log           *zap.Logger

	mu      sync.Mutex
	mounts  map[string]*Mount
	configs map[string]Config
}

func New(cfg RegistryConfig) *Registry {
	r := &Registry{
		static:        make(map[string]Config, len(cfg.Connections)),
		defaultDriver: cfg.DefaultDriver,
		factory:       cfg.Factory,
		log:           cfg.Logger,
		mounts:        map[string]*Mount{},
		configs:       map[string]Config{},
	}
	for name, c := range cfg.Connections {
		r.static[name] = c.clone()
	}
	if r.defaultDriver == "" {
		r.defaultDriver = DriverLocal
	}
	if r.factory == nil {
		r.factory = DriverFactory{}
	}
	if r.log == nil {
		r.log = logger.Named("mount")
	}
	return r
}

// Mount resuelve name (o opts.Tag) a un handle. Si el tag ya está registrado
// devuelve ese handle e ignora opts.
func (r *Registry) Mount(name string, opts *Options) (*Mount, error) {
	tag := TagFor(name, opts)
	var prefix string
	if opts != nil {
		prefix = normalizePrefix(opts.Prefix)
	}
	log := r.log.With(logger.Mount(name), logger.Tag(tag))

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.mounts[tag]; ok {
		metrics.Mounts.WithLabelValues("reused").Inc()
		return m, nil
	}

	cfg, found := r.static[name]
	if !found && opts.empty() {
		metrics.Mounts.WithLabelValues("failed").Inc()
		return nil, ErrNoConfiguration.WithDetail("%q", name)
	}
	cfg = opts.apply(cfg.clone())
	if prefix == "" {
		prefix = normalizePrefix(cfg.Prefix)
	}
	if err := cfg.Normalize(r.defaultDriver); err != nil {
		metrics.Mounts.WithLabelValues("failed").Inc()
		log.Warn("invalid mount configuration", logger.Err(err))
		return nil, err
	}
	cfg.Prefix = prefix
	cfg.Path = applyPrefix(cfg.Path, prefix)

	fs, closer, err := r.factory.Open(cfg)
	if err != nil {
		metrics.Mounts.WithLabelValues("failed").Inc()
		log.Warn("mount failed", logger.Driver(cfg.Driver), logger.Path(cfg.Path), logger.Err(err))
		return nil, err
	}

	m := &Mount{Fs: fs, Tag: tag, Config: cfg, closer: closer}
	r.configs[tag] = cfg
	r.mounts[tag] = m
	metrics.Mounts.WithLabelValues("created").Inc()
	metrics.MountedTags.Set(float64(len(r.mounts)))
	log.Debug("mounted", logger.Driver(cfg.Driver), logger.Path(cfg.Path))
	return m, nil
}

// Unmount saca el tag del registry sin cerrar el handle. Reporta si estaba.
func (r *Registry) Unmount(name string, opts *Options) bool {
	tag := TagFor(name, opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.mounts[tag]; !ok {
		return false
	}
	delete(r.mounts, tag)
	delete(r.configs, tag)
	metrics.Mounts.WithLabelValues("unmounted").Inc()
	metrics.MountedTags.Set(float64(len(r.mounts)))
	r.log.Debug("unmounted", logger.Tag(tag))
	return true
}

// Lookup devuelve el handle registrado para tag.
func (r *Registry) Lookup(tag string) (*Mount, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mounts[tag]
	return m, ok
}

// Tags registrados, ordenados.
func (r *Registry) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.mounts))
	for t := range r.mounts {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Connection es la configuración mezclada con la que se resolvió tag.
func (r *Registry) Connection(tag string) (Config, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.configs[tag]
	return c.clone(), ok
}
