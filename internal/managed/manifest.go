package managed

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Manifest es el documento de confianza del cluster. Inmutable una vez cargado.
type Manifest struct {
	ClientID        string `json:"client-id"`
	ClientSecret    string `json:"client-secret"`
	SignatureMethod string `json:"signature-method"`
	ConsoleAPIURL   string `json:"console-api-url"`
	DefaultDomain   string `json:"default-domain"`
	StorageRoot     string `json:"storage-root"`
}

// LocateManifest sube desde startDir buscando name. Revisa cada directorio
// hasta la raíz del filesystem inclusive.
func LocateManifest(fs afero.Fs, startDir, name string) (string, bool) {
	dir := filepath.Clean(startDir)
	for {
		candidate := filepath.Join(dir, name)
		if ok, err := afero.Exists(fs, candidate); err == nil && ok {
			if isDir, _ := afero.IsDir(fs, candidate); !isDir {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadManifest lee y parsea el manifest. Cualquier falla de lectura o de
// formato es ErrManifestMalformed.
func LoadManifest(fs afero.Fs, path string) (*Manifest, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, ErrManifestMalformed.WithDetail("%s", path).WithCause(err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, ErrManifestMalformed.WithDetail("%s", path).WithCause(err)
	}
	return &m, nil
}

// checkRequired exige console-api-url y el par client-id/client-secret.
// Que falte alguno es error de configuración y corta el bootstrap: el
// manifest existe pero está roto. El validador histórico devolvía false y
// dejaba la instancia como standalone.
func (m *Manifest) checkRequired() error {
	if strings.TrimSpace(m.ConsoleAPIURL) == "" ||
		strings.TrimSpace(m.ClientID) == "" ||
		m.ClientSecret == "" {
		return ErrManifestIncomplete
	}
	return nil
}
