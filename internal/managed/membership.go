// Package managed descubre si el proceso es una instancia managed de un
// cluster y resuelve dónde viven sus datos.
//
// El bootstrap es una máquina de estados:
//
//	Unknown ─cache hit──────────────────────────────────────────▶ Managed
//	   │
//	   └▶ ManifestSearch ─no manifest─▶ Unmanaged (false, nil)
//	        └▶ ManifestLoaded ─validación─▶ Validated ─HMAC─▶ Authenticated
//	             └▶ ClusterQueried ─paths creados + cache─▶ Managed
//
// Sin manifest la instancia es standalone. Con manifest, cualquier falla
// posterior (salvo que el manifest no aplique a este host) es fatal.
package managed

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/instancestore/internal/cache"
	cmem "github.com/dropDatabas3/instancestore/internal/cache/memory"
	"github.com/dropDatabas3/instancestore/internal/disk"
	"github.com/dropDatabas3/instancestore/internal/metrics"
	"github.com/dropDatabas3/instancestore/internal/observability/logger"
)

// Options configura una Membership. Los campos vacíos toman los defaults de
// defaults.go.
type Options struct {
	HostName     string // default: os.Hostname()
	StartDir     string // default: directorio actual
	ManifestFile string

	Cache            cache.Cache // default: go-cache en memoria
	CacheTTL         time.Duration
	CacheKeyPrefix   string
	AlwaysRediscover bool // modo debug: ignora el cache al arrancar

	HTTPClient     *http.Client
	ConsoleTimeout time.Duration

	Disk               *disk.Builder
	PrivateLogPathName string

	// LocalDatabase es la DB de una instancia standalone.
	LocalDatabase map[string]any

	Logger *zap.Logger
}

func (o *Options) withDefaults() {
	if o.HostName == "" {
		o.HostName, _ = os.Hostname()
	}
	if o.StartDir == "" {
		o.StartDir, _ = os.Getwd()
	}
	if o.ManifestFile == "" {
		o.ManifestFile = ManifestFile
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = CacheTTL
	}
	if o.Cache == nil {
		o.Cache = cmem.New(o.CacheTTL, "")
	}
	if o.CacheKeyPrefix == "" {
		o.CacheKeyPrefix = CacheKeyPrefix
	}
	if o.ConsoleTimeout <= 0 {
		o.ConsoleTimeout = ConsoleTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.ConsoleTimeout}
	}
	if o.Disk == nil {
		o.Disk = disk.OS()
	}
	if o.PrivateLogPathName == "" {
		o.PrivateLogPathName = PrivateLogPathName
	}
	if o.Logger == nil {
		o.Logger = logger.Named("managed")
	}
}

// Membership es el estado de pertenencia al cluster de este proceso.
// Se construye una vez al arrancar y se pasa a los consumidores.
type Membership struct {
	opts  Options
	disk  *disk.Builder
	cache cache.Cache
	log   *zap.Logger
	sf    singleflight.Group

	mu          sync.RWMutex
	initialized bool
	managed     bool
	manifest    *Manifest
	token       string
	paths       PathSet
	config      InstanceConfig
}

// New crea una Membership sin estado; llamar Initialize antes de consultar.
func New(opts Options) *Membership {
	opts.withDefaults()
	return &Membership{
		opts:  opts,
		disk:  opts.Disk,
		cache: opts.Cache,
		log:   opts.Logger.With(logger.Host(opts.HostName)),
		paths: PathSet{},
	}
}

// discovery es el resultado compartido de un bootstrap sin cache.
type discovery struct {
	snap     *snapshot
	manifest *Manifest
	token    string
}

// Initialize resuelve la pertenencia al cluster. Es idempotente: devuelve
// true si la instancia es managed, (false, nil) si es standalone, y error si
// hay un manifest pero el bootstrap falla.
func (m *Membership) Initialize(ctx context.Context) (bool, error) {
	key := m.CacheKey()
	log := m.log.With(logger.CacheKey(key))

	if !m.opts.AlwaysRediscover {
		if snap, ok := m.loadCachedValues(ctx, key); ok {
			if snap.Paths.ensure(m.disk) {
				m.adopt(&discovery{snap: snap})
				metrics.Discovery.WithLabelValues("cached").Inc()
				log.Debug("managed instance restored from cache")
				return true, nil
			}
			log.Warn("cached paths could not be ensured, rediscovering")
		}
	}

	// un solo bootstrap por key aunque haya requests concurrentes en frío
	v, err, _ := m.sf.Do(key, func() (any, error) {
		return m.discover(ctx)
	})
	if err != nil {
		metrics.Discovery.WithLabelValues("failed").Inc()
		log.Error("managed instance bootstrap failed", logger.Err(err))
		return false, err
	}

	d, _ := v.(*discovery)
	if d == nil {
		m.mu.Lock()
		m.initialized, m.managed = true, false
		m.mu.Unlock()
		metrics.Discovery.WithLabelValues("unmanaged").Inc()
		log.Info("unmanaged instance, ignoring")
		return false, nil
	}

	m.adopt(d)
	metrics.Discovery.WithLabelValues("managed").Inc()
	log.Info("managed instance bootstrap complete", logger.InstanceName(d.snap.Config.InstanceName))
	return true, nil
}

func (m *Membership) adopt(d *discovery) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = true
	m.managed = true
	m.paths = d.snap.Paths.clone()
	m.config = d.snap.Config
	if d.manifest != nil {
		m.manifest = d.manifest
		m.token = d.token
	}
}

// discover recorre ManifestSearch → Managed. (nil, nil) significa standalone.
func (m *Membership) discover(ctx context.Context) (*discovery, error) {
	fs := m.disk.Fs()

	file, found := LocateManifest(fs, m.opts.StartDir, m.opts.ManifestFile)
	if !found {
		return nil, nil
	}
	log := m.log.With(logger.Path(file))
	log.Info("cluster manifest found")

	manifest, err := LoadManifest(fs, file)
	if err != nil {
		return nil, err
	}

	env, err := validateEnvironment(manifest, m.opts.HostName)
	if err != nil {
		if IsValidation(err) {
			log.Warn("cluster manifest does not apply to this host", logger.Err(err))
			return nil, nil
		}
		return nil, err
	}

	token, err := AccessToken(manifest.SignatureMethod, manifest.ClientID, manifest.ClientSecret)
	if err != nil {
		return nil, err
	}

	c := &console{
		http:     m.opts.HTTPClient,
		baseURL:  env.ConsoleAPIURL,
		clientID: manifest.ClientID,
		token:    token,
		log:      log,
	}
	st, err := m.interrogateCluster(ctx, c, env.InstanceName)
	if err != nil {
		return nil, err
	}

	cfg := newInstanceConfig(m.opts.HostName, manifest, env, st)
	paths, err := resolvePaths(m.disk, env.StorageRoot, cfg.Paths, m.opts.PrivateLogPathName)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{Paths: paths, Config: cfg}
	m.freshenCache(ctx, m.CacheKey(), snap)
	return &discovery{snap: snap, manifest: manifest, token: token}, nil
}

func (m *Membership) interrogateCluster(ctx context.Context, c *console, id string) (*InstanceStatus, error) {
	raw, ok := c.call(ctx, "status", map[string]any{"id": id})
	if !ok {
		return nil, ErrUnmanagedDetected.WithDetail("%q", id)
	}
	m.log.Debug("ops/status response", logger.InstanceName(id), logger.Int("bytes", len(raw)))
	return parseStatus(raw, id)
}

// CacheKey es "<prefix><host-name>".
func (m *Membership) CacheKey() string {
	return m.opts.CacheKeyPrefix + m.opts.HostName
}

// HostName con el que se resolvió la instancia.
func (m *Membership) HostName() string { return m.opts.HostName }

// Initialized reporta si Initialize terminó (con cualquier resultado no fatal).
func (m *Membership) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

func (m *Membership) IsManagedInstance() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.managed
}

func (m *Membership) InstanceName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.InstanceName
}

func (m *Membership) StorageRoot() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths[KeyStorageRoot]
}

func (m *Membership) pathWith(key, appendPath string) string {
	m.mu.RLock()
	base := m.paths[key]
	m.mu.RUnlock()
	p, _ := disk.Segment([]string{base, appendPath}, true)
	return p
}

// StoragePath retorna storage-path con appendPath agregado.
func (m *Membership) StoragePath(appendPath string) string {
	return m.pathWith(KeyStoragePath, appendPath)
}

// PrivatePath retorna private-path con appendPath agregado.
func (m *Membership) PrivatePath(appendPath string) string {
	return m.pathWith(KeyPrivatePath, appendPath)
}

// OwnerPrivatePath retorna owner-private-path con appendPath agregado.
func (m *Membership) OwnerPrivatePath(appendPath string) string {
	return m.pathWith(KeyOwnerPrivatePath, appendPath)
}

// LogPath retorna el directorio de logs, creándolo si hace falta.
func (m *Membership) LogPath() (string, error) {
	m.mu.RLock()
	managed, logPath, private := m.managed, m.paths[KeyLogPath], m.paths[KeyPrivatePath]
	m.mu.RUnlock()
	if !managed {
		return "", ErrNotManaged
	}
	if logPath != "" {
		return m.disk.Path([]string{logPath}, true, disk.DefaultDirMode, true)
	}
	return m.disk.Path([]string{private, m.opts.PrivateLogPathName}, true, disk.DefaultDirMode, true)
}

// LogFile retorna el path absoluto de un archivo de log; name vacío usa
// "<instance>.log".
func (m *Membership) LogFile(name string) (string, error) {
	dir, err := m.LogPath()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		name = m.InstanceName() + ".log"
	}
	return m.disk.Path([]string{dir, name}, false, 0, false)
}

// DatabaseConfig retorna la DB autoritativa del console si la instancia es
// managed, o la local si no.
func (m *Membership) DatabaseConfig() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.opts.LocalDatabase
	if m.managed {
		src = m.config.DB
	}
	return cloneMap(src)
}

// Limits retorna todos los límites de la instancia (vacío si no hay).
func (m *Membership) Limits() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := cloneMap(m.config.Limits)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// Limit retorna un límite puntual.
func (m *Membership) Limit(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.config.Limits[key]
	return v, ok
}

// ConsoleKey es hex(sha256(cluster-id + instance-id)); ok=false si la
// instancia no es managed.
func (m *Membership) ConsoleKey() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.managed {
		return "", false
	}
	return consoleKey(m.config.Env.ClusterID, m.config.Env.InstanceID), true
}

// Paths retorna una copia del PathSet resuelto.
func (m *Membership) Paths() PathSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths.clone()
}

// Config retorna una copia superficial de la configuración en memoria.
func (m *Membership) Config() InstanceConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
