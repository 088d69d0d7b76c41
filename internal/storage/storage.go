// Package storage expone los paths de datos de la instancia. Si la instancia
// es managed los toma de la Membership; si no, de la configuración local.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/dropDatabas3/instancestore/internal/disk"
	"github.com/dropDatabas3/instancestore/internal/managed"
)

const (
	DefaultPrivatePathName   = ".private"
	DefaultSnapshotPathName  = "snapshots"
	DefaultMaintenanceMarker = "/var/www/.maintenance"
	workDirName              = "dfe"
)

// Config es la parte local del storage; solo se usa en instancias standalone,
// salvo los nombres de directorio y el marcador de mantenimiento.
type Config struct {
	LocalPath         string
	PrivatePathName   string
	SnapshotPathName  string
	TempDir           string // default: os.TempDir()
	MaintenanceMarker string
}

// VirtualStorage resuelve los paths de la instancia.
type VirtualStorage struct {
	q    managed.Querier
	disk *disk.Builder
	cfg  Config
}

// New crea el storage. q puede ser nil (instancia standalone).
func New(q managed.Querier, d *disk.Builder, cfg Config) *VirtualStorage {
	if d == nil {
		d = disk.OS()
	}
	cfg.PrivatePathName = strings.Trim(cfg.PrivatePathName, "/"+string(filepath.Separator))
	if cfg.PrivatePathName == "" {
		cfg.PrivatePathName = DefaultPrivatePathName
	}
	if cfg.SnapshotPathName == "" {
		cfg.SnapshotPathName = DefaultSnapshotPathName
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.MaintenanceMarker == "" {
		cfg.MaintenanceMarker = DefaultMaintenanceMarker
	}
	return &VirtualStorage{q: q, disk: d, cfg: cfg}
}

func (s *VirtualStorage) managed() bool {
	return s.q != nil && s.q.IsManagedInstance()
}

func (s *VirtualStorage) local(parts ...string) string {
	p, _ := disk.Segment(append([]string{s.cfg.LocalPath}, parts...), true)
	return p
}

// RootStoragePath es storage-root, o el path local en standalone.
func (s *VirtualStorage) RootStoragePath() string {
	if s.managed() {
		return s.q.StorageRoot()
	}
	return s.local()
}

func (s *VirtualStorage) StoragePath(appendPath string) string {
	if s.managed() {
		return s.q.StoragePath(appendPath)
	}
	return s.local(appendPath)
}

func (s *VirtualStorage) PrivatePath(appendPath string) string {
	if s.managed() {
		return s.q.PrivatePath(appendPath)
	}
	return s.local(s.cfg.PrivatePathName, appendPath)
}

// OwnerPrivatePath en standalone coincide con PrivatePath: el dueño es la
// propia instancia.
func (s *VirtualStorage) OwnerPrivatePath(appendPath string) string {
	if s.managed() {
		return s.q.OwnerPrivatePath(appendPath)
	}
	return s.PrivatePath(appendPath)
}

// SnapshotPath es owner-private-path + el directorio de snapshots.
func (s *VirtualStorage) SnapshotPath() string {
	return s.OwnerPrivatePath(s.cfg.SnapshotPathName)
}

func (s *VirtualStorage) PrivatePathName() string { return s.cfg.PrivatePathName }

// WorkPath crea y devuelve <tmp>/dfe/<tag>, el directorio de trabajo de un
// mount.
func (s *VirtualStorage) WorkPath(tag string) (string, error) {
	return s.disk.Path([]string{s.cfg.TempDir, workDirName, tag}, true, disk.DefaultDirMode, true)
}

// InMaintenance reporta si existe el marcador de mantenimiento.
func (s *VirtualStorage) InMaintenance() bool {
	ok, _ := afero.Exists(s.disk.Fs(), s.cfg.MaintenanceMarker)
	return ok
}
