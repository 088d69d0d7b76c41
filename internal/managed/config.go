package managed

// InstanceConfig es la configuración en memoria de una instancia managed:
// lo validado del manifest más lo que devolvió el console. Se cachea tal cual,
// por eso no lleva el client-secret.
type InstanceConfig struct {
	HostName        string `json:"host-name"`
	InstanceName    string `json:"instance-name"`
	DefaultDomain   string `json:"default-domain,omitempty"`
	ConsoleAPIURL   string `json:"console-api-url"`
	ClientID        string `json:"client-id"`
	SignatureMethod string `json:"signature-method"`
	StorageRoot     string `json:"storage-root"`

	StorageMap   map[string]any    `json:"storage-map,omitempty"`
	HomeLinks    any               `json:"home-links,omitempty"`
	ManagedLinks any               `json:"managed-links,omitempty"`
	Env          ClusterEnv        `json:"env"`
	Audit        map[string]any    `json:"audit,omitempty"`
	Paths        map[string]string `json:"paths,omitempty"`
	DB           map[string]any    `json:"db,omitempty"`
	Limits       map[string]any    `json:"limits,omitempty"`
}

func (c InstanceConfig) empty() bool {
	return c.InstanceName == "" && c.StorageRoot == ""
}

func newInstanceConfig(host string, m *Manifest, env *environment, st *InstanceStatus) InstanceConfig {
	md := st.Response.Metadata
	cfg := InstanceConfig{
		HostName:        host,
		InstanceName:    env.InstanceName,
		DefaultDomain:   env.DefaultDomain,
		ConsoleAPIURL:   env.ConsoleAPIURL,
		ClientID:        m.ClientID,
		SignatureMethod: m.SignatureMethod,
		StorageRoot:     env.StorageRoot,
		StorageMap:      md.StorageMap,
		HomeLinks:       st.Response.HomeLinks,
		ManagedLinks:    st.Response.ManagedLinks,
		Env:             md.Env,
		Audit:           md.Audit,
		Paths:           md.Paths,
	}
	if cfg.SignatureMethod == "" {
		cfg.SignatureMethod = DefaultSignatureMethod
	}
	// la primera entrada de db es la autoritativa
	if len(md.DB) > 0 {
		cfg.DB = md.DB[0]
	}
	if len(md.Limits) > 0 {
		cfg.Limits = md.Limits
	}
	return cfg
}
