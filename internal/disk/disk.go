// Package disk construye paths y administra directorios sobre un afero.Fs.
//
// El Fs es inyectable: producción usa afero.NewOsFs(), los tests pueden usar
// afero.NewMemMapFs() sin tocar el disco real.
package disk

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/dropDatabas3/instancestore/internal/apperr"
)

// DefaultDirMode es el modo de los directorios de instancia (02775).
// mkdir(2) descarta el setgid y aplica el umask, por eso EnsurePath hace
// Chmod de cada directorio que crea.
const DefaultDirMode = os.ModeSetgid | 0o775

const sep = string(filepath.Separator)

var (
	ErrEmptyPath    = apperr.New(apperr.KindConfiguration, http.StatusInternalServerError, "EMPTY_PATH", "empty paths cannot be created")
	ErrCreateDir    = apperr.New(apperr.KindStorage, http.StatusInternalServerError, "CREATE_DIR_FAILED", "unable to create directory")
	ErrNotDirectory = apperr.New(apperr.KindStorage, http.StatusInternalServerError, "NOT_A_DIRECTORY", "path is not a directory")
)

// Builder arma paths y los crea/borra sobre su Fs.
type Builder struct {
	fs afero.Fs
}

// New crea un Builder. fs nil equivale a afero.NewOsFs().
func New(fs afero.Fs) *Builder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Builder{fs: fs}
}

// OS es el Builder sobre el filesystem real.
func OS() *Builder { return New(afero.NewOsFs()) }

// Fs expone el filesystem subyacente.
func (b *Builder) Fs() afero.Fs { return b.fs }

// Segment une fragmentos con un único separador entre cada uno, recortando
// separadores en los bordes de cada fragmento. Los fragmentos vacíos se ignoran.
// Con leading el resultado empieza con exactamente un separador. Sin leading,
// un primer fragmento absoluto sigue siendo absoluto.
//
//	Segment([]string{"a", "/b/", "c"}, true) == "/a/b/c"
//
// ok es false si no quedó nada que unir.
func Segment(parts []string, leading bool) (string, bool) {
	var (
		pieces   = make([]string, 0, len(parts))
		seen     bool
		absolute bool
	)
	for _, p := range parts {
		if p == "" {
			continue
		}
		if !seen {
			absolute = strings.HasPrefix(p, "/") || strings.HasPrefix(p, sep)
			seen = true
		}
		if t := strings.Trim(p, "/"+sep); t != "" {
			pieces = append(pieces, t)
		}
	}
	if len(pieces) == 0 {
		if seen && (leading || absolute) {
			return sep, true
		}
		return "", false
	}
	out := strings.Join(pieces, sep)
	if leading || absolute {
		out = sep + out
	}
	return out, true
}

// Path arma el path con Segment (siempre con separador inicial) y, si create
// es true, garantiza que el directorio exista con el modo dado.
func (b *Builder) Path(parts []string, create bool, mode os.FileMode, recursive bool) (string, error) {
	p, ok := Segment(parts, true)
	if !ok {
		if create {
			return "", ErrEmptyPath
		}
		return "", nil
	}
	if create && !b.EnsurePath(p, mode, recursive) {
		return "", ErrCreateDir.WithDetail("%s", p)
	}
	return p, nil
}

// EnsurePath reporta si path existe como directorio o pudo crearse.
// No distingue "ya existía" de "recién creado".
func (b *Builder) EnsurePath(path string, mode os.FileMode, recursive bool) bool {
	if ok, _ := afero.DirExists(b.fs, path); ok {
		return true
	}
	created := []string{path}
	var err error
	if recursive {
		created = b.missingDirs(path)
		err = b.fs.MkdirAll(path, mode)
	} else {
		err = b.fs.Mkdir(path, mode)
	}
	if err != nil && !errors.Is(err, os.ErrExist) {
		return false
	}
	// MkdirAll no falla si el path existe como archivo; otro proceso también
	// pudo haberlo creado entre el check y el mkdir.
	if ok, _ := afero.DirExists(b.fs, path); !ok {
		return false
	}
	for _, dir := range created {
		if err := b.fs.Chmod(dir, mode); err != nil {
			return false
		}
	}
	return true
}

// missingDirs lista path y sus ancestros que todavía no existen, del más
// profundo al más cercano a la raíz.
func (b *Builder) missingDirs(path string) []string {
	var out []string
	for dir := filepath.Clean(path); ; dir = filepath.Dir(dir) {
		if ok, _ := afero.Exists(b.fs, dir); ok {
			return out
		}
		out = append(out, dir)
		if filepath.Dir(dir) == dir {
			return out
		}
	}
}

// DeleteTree borra path y todo su contenido. Un path inexistente cuenta como
// borrado. Los symlinks hijos se desenlazan, nunca se recorren; si path mismo
// es un symlink a un directorio solo se borra el link. Un symlink colgado o a
// un archivo es ErrNotDirectory.
func (b *Builder) DeleteTree(path string) (bool, error) {
	fi, err := b.lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		// un link colgado tampoco apunta a un directorio
		target, err := b.fs.Stat(path)
		if err != nil || !target.IsDir() {
			return false, ErrNotDirectory.WithDetail("%s", path).WithCause(err)
		}
		if err := b.fs.Remove(path); err != nil {
			return false, err
		}
		return true, nil
	}
	if !fi.IsDir() {
		return false, ErrNotDirectory.WithDetail("%s", path)
	}

	if err := b.deleteChildren(path); err != nil {
		return false, err
	}
	if err := b.fs.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Builder) deleteChildren(dir string) error {
	entries, err := afero.ReadDir(b.fs, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		child := filepath.Join(dir, e.Name())
		fi, err := b.lstat(child)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		if fi.IsDir() && fi.Mode()&os.ModeSymlink == 0 {
			if err := b.deleteChildren(child); err != nil {
				return err
			}
		}
		if err := b.fs.Remove(child); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// RemoveDir borra un directorio vacío, o el árbol entero si force es true.
func (b *Builder) RemoveDir(path string, force bool) (bool, error) {
	if force {
		return b.DeleteTree(path)
	}
	if err := b.fs.Remove(strings.TrimRight(path, " ")); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Builder) lstat(path string) (os.FileInfo, error) {
	if ls, ok := b.fs.(afero.Lstater); ok {
		fi, _, err := ls.LstatIfPossible(path)
		return fi, err
	}
	return b.fs.Stat(path)
}

// NormalizePath corrige paths que empiezan Windows y siguen Unix
// (C:\site\public/storage/.private). Fuera de Windows es la identidad.
func NormalizePath(path string) string {
	return normalizeFor(runtime.GOOS, path)
}

func normalizeFor(goos, path string) string {
	if goos != "windows" {
		return path
	}
	if len(path) > 2 && path[1] == ':' && path[2] == '\\' && strings.Contains(path, "/") {
		return strings.ReplaceAll(path, "/", "\\")
	}
	return path
}
