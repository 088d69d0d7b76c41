package mount

import (
	"archive/zip"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/afero/zipfs"

	"github.com/dropDatabas3/instancestore/internal/disk"
)

// Factory construye el handle de una conexión ya normalizada. El closer
// puede ser nil; el registry nunca lo cierra.
type Factory interface {
	Open(cfg Config) (afero.Fs, io.Closer, error)
}

// FactoryFunc adapta una función a Factory.
type FactoryFunc func(cfg Config) (afero.Fs, io.Closer, error)

func (f FactoryFunc) Open(cfg Config) (afero.Fs, io.Closer, error) { return f(cfg) }

// DriverFactory resuelve los drivers local, readonly-local, memory y zip
// sobre Disk.
type DriverFactory struct {
	Disk *disk.Builder // default: disk.OS()
}

func (f DriverFactory) builder() *disk.Builder {
	if f.Disk == nil {
		return disk.OS()
	}
	return f.Disk
}

func (f DriverFactory) Open(cfg Config) (afero.Fs, io.Closer, error) {
	b := f.builder()
	switch cfg.Driver {
	case DriverLocal:
		if !b.EnsurePath(cfg.Path, disk.DefaultDirMode, true) {
			return nil, nil, disk.ErrCreateDir.WithDetail("%s", cfg.Path)
		}
		return afero.NewBasePathFs(b.Fs(), cfg.Path), nil, nil

	case DriverReadOnlyLocal:
		if ok, _ := afero.DirExists(b.Fs(), cfg.Path); !ok {
			return nil, nil, disk.ErrNotDirectory.WithDetail("%s", cfg.Path)
		}
		return afero.NewReadOnlyFs(afero.NewBasePathFs(b.Fs(), cfg.Path)), nil, nil

	case DriverMemory:
		return afero.NewMemMapFs(), nil, nil

	case DriverZip:
		return openZip(b.Fs(), cfg.Path)

	default:
		return nil, nil, ErrUnknownDriver.WithDetail("%q", cfg.Driver)
	}
}

// openZip abre el archivo en path como un Fs de solo lectura. El closer es
// el archivo subyacente.
func openZip(fs afero.Fs, path string) (afero.Fs, io.Closer, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, nil, ErrOpenArchive.WithDetail("%s", path).WithCause(err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, ErrOpenArchive.WithDetail("%s", path).WithCause(err)
	}
	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, nil, ErrOpenArchive.WithDetail("%s is not a zip archive", path).WithCause(err)
	}
	return zipfs.New(zr), f, nil
}
