package managed

import (
	"net"
	"path/filepath"
	"strings"
)

// environment es el resultado de validar el manifest contra este host.
type environment struct {
	ConsoleAPIURL string
	DefaultDomain string
	InstanceName  string
	StorageRoot   string
}

// validateEnvironment exige las keys requeridas (error de configuración) y
// luego verifica que el manifest aplique a host (error de validación).
func validateEnvironment(m *Manifest, host string) (*environment, error) {
	if err := m.checkRequired(); err != nil {
		return nil, err
	}

	env := &environment{
		ConsoleAPIURL: strings.TrimRight(strings.TrimSpace(m.ConsoleAPIURL), "/") + "/",
	}

	host = stripPort(strings.ToLower(strings.TrimSpace(host)))
	name := host
	if dd := strings.TrimLeft(strings.ToLower(m.DefaultDomain), ". "); dd != "" {
		dd = "." + dd
		idx := strings.LastIndex(host, dd)
		if idx < 0 {
			return nil, ErrDomainMismatch.WithDetail("host %q, domain %q", host, dd)
		}
		name = host[:idx] + host[idx+len(dd):]
		env.DefaultDomain = dd
	}
	if name == "" {
		return nil, ErrNoInstanceName.WithDetail("host %q", host)
	}
	env.InstanceName = name

	// "/" es una raíz válida: se recorta después de chequear que haya algo
	raw := strings.TrimSpace(m.StorageRoot)
	if raw == "" {
		return nil, ErrNoStorageRoot
	}
	env.StorageRoot = strings.TrimRight(raw, "/"+string(filepath.Separator)) + string(filepath.Separator)

	return env, nil
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
