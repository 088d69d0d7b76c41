package mount

import (
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Drivers soportados por DriverFactory.
const (
	DriverLocal         = "local"
	DriverReadOnlyLocal = "readonly-local"
	DriverMemory        = "memory"
	DriverZip           = "zip"
)

const sep = string(filepath.Separator)

// Config es una conexión de mount. Root es el alias legacy de Path y
// desaparece en Normalize.
type Config struct {
	Driver   string            `yaml:"driver,omitempty" json:"driver"`
	Path     string            `yaml:"path,omitempty" json:"path"`
	Root     string            `yaml:"root,omitempty" json:"root,omitempty"`
	Prefix   string            `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Settings map[string]string `yaml:"settings,omitempty" json:"settings,omitempty"`
}

var knownKeys = map[string]bool{"driver": true, "path": true, "root": true, "prefix": true, "settings": true}

// UnmarshalYAML rechaza keys desconocidas aunque el documento completo se
// decodifique sin KnownFields.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if k := value.Content[i].Value; !knownKeys[k] {
				return ErrUnknownKey.WithDetail("%q (line %d)", k, value.Content[i].Line)
			}
		}
	}
	type plain Config
	return value.Decode((*plain)(c))
}

// DecodeConnections lee un documento YAML nombre → Config.
func DecodeConnections(r io.Reader) (map[string]Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	out := map[string]Config{}
	if err := dec.Decode(&out); err != nil && err != io.EOF {
		return nil, err
	}
	return out, nil
}

func (c Config) clone() Config {
	out := c
	if c.Settings != nil {
		out.Settings = make(map[string]string, len(c.Settings))
		for k, v := range c.Settings {
			out.Settings[k] = v
		}
	}
	return out
}

// Normalize pliega root en path, exige un path y completa el driver.
func (c *Config) Normalize(defaultDriver string) error {
	c.Path = strings.TrimSpace(c.Path)
	c.Root = strings.TrimSpace(c.Root)
	switch {
	case c.Path == "" && c.Root == "":
		return ErrNoPath
	case c.Path == "":
		c.Path = c.Root
	case c.Root != "" && filepath.Clean(c.Root) != filepath.Clean(c.Path):
		return ErrConflictingPath.WithDetail("path %q, root %q", c.Path, c.Root)
	}
	c.Root = ""

	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = defaultDriver
	}
	return nil
}

// Options son los overrides de una llamada a Mount. nil o el valor cero
// equivalen a "sin options".
type Options struct {
	Tag      string
	Prefix   string
	Path     string
	Root     string
	Driver   string
	Settings map[string]string
}

func (o *Options) empty() bool {
	return o == nil ||
		(o.Tag == "" && o.Prefix == "" && o.Path == "" && o.Root == "" && o.Driver == "" && len(o.Settings) == 0)
}

// apply pisa los campos de c con los de o que vengan seteados.
func (o *Options) apply(c Config) Config {
	if o == nil {
		return c
	}
	if o.Path != "" {
		c.Path = o.Path
	}
	if o.Root != "" {
		c.Root = o.Root
	}
	if o.Driver != "" {
		c.Driver = o.Driver
	}
	for k, v := range o.Settings {
		if c.Settings == nil {
			c.Settings = map[string]string{}
		}
		c.Settings[k] = v
	}
	return c
}

// TagFor es el tag bajo el que se registra name: options.Tag o name, con
// "." reemplazado por "-".
func TagFor(name string, opts *Options) string {
	tag := name
	if opts != nil && opts.Tag != "" {
		tag = opts.Tag
	}
	return strings.ReplaceAll(tag, ".", "-")
}

// normalizePrefix deja el prefix terminado en separador; vacío si no hay.
func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(prefix, " ")
	if strings.Trim(prefix, " "+sep) == "" {
		return ""
	}
	return strings.TrimRight(prefix, sep) + sep
}

// applyPrefix agrega prefix como último segmento de path salvo que
// prefixPresent diga que ya está.
func applyPrefix(path, prefix string) string {
	p := strings.Trim(prefix, " "+sep)
	if p == "" {
		return path
	}
	base := strings.TrimRight(path, sep)
	if prefixPresent(base, p) {
		return path
	}
	return base + sep + p
}

// prefixPresent es un chequeo de substring, no de segmento: "/data/tenantAB"
// ya "contiene" tenantA. Es el comportamiento histórico de los mounts.
func prefixPresent(path, prefix string) bool {
	return strings.Contains(path, prefix)
}
