package disk

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFileAtomic escribe data en path vía un temporal en el mismo
// directorio: write, Sync, Close, Chmod, Rename. El directorio se crea con
// DefaultDirMode si falta. Si el rename falla, intenta remove+rename.
func (b *Builder) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if !b.EnsurePath(dir, DefaultDirMode, true) {
		return ErrCreateDir.WithDetail("%s", dir)
	}

	tmp, err := afero.TempFile(b.fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = b.fs.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	_ = b.fs.Chmod(tmpPath, perm)

	if err := b.fs.Rename(tmpPath, path); err != nil {
		_ = b.fs.Remove(path)
		if err2 := b.fs.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename: %v (after remove: %v)", err, err2)
		}
	}
	return nil
}
