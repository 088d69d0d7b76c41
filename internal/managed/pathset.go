package managed

import (
	"sort"

	"github.com/dropDatabas3/instancestore/internal/disk"
)

// PathSet son los paths absolutos y ya creados de la instancia, por nombre
// semántico (storage-root, storage-path, private-path, ...).
type PathSet map[string]string

func (p PathSet) Get(key string) string { return p[key] }

// Keys en orden estable, para logs y respuestas.
func (p PathSet) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p PathSet) clone() PathSet {
	out := make(PathSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// resolvePaths antepone storageRoot a cada path relativo del console y crea
// cada directorio (02775, recursivo). log-path sale de private-path/logs salvo
// que el console mande uno propio.
func resolvePaths(b *disk.Builder, storageRoot string, raw map[string]string, logDir string) (PathSet, error) {
	rel := make(map[string]string, len(raw)+1)
	for k, v := range raw {
		rel[k] = v
	}
	if _, ok := rel[KeyLogPath]; !ok {
		rel[KeyLogPath], _ = disk.Segment([]string{rel[KeyPrivatePath], logDir}, false)
	}
	delete(rel, KeyStorageRoot)

	root, err := b.Path([]string{storageRoot}, true, disk.DefaultDirMode, true)
	if err != nil {
		return nil, err
	}
	out := PathSet{KeyStorageRoot: root}
	for k, v := range rel {
		p, err := b.Path([]string{storageRoot, v}, true, disk.DefaultDirMode, true)
		if err != nil {
			return nil, err
		}
		out[k] = p
	}
	return out, nil
}

// ensure vuelve a crear cada directorio del set; false si alguno falla.
func (p PathSet) ensure(b *disk.Builder) bool {
	for _, v := range p {
		if !b.EnsurePath(v, disk.DefaultDirMode, true) {
			return false
		}
	}
	return true
}
