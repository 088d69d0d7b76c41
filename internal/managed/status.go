package managed

import "encoding/json"

// InstanceStatus es la respuesta de POST {console}/status.
type InstanceStatus struct {
	Success  bool            `json:"success"`
	Response *StatusResponse `json:"response"`
}

type StatusResponse struct {
	Archived     bool      `json:"archived"`
	Deleted      bool      `json:"deleted"`
	Metadata     *Metadata `json:"metadata"`
	HomeLinks    any       `json:"home-links,omitempty"`
	ManagedLinks any       `json:"managed-links,omitempty"`
}

type Metadata struct {
	StorageMap map[string]any    `json:"storage-map"`
	Env        ClusterEnv        `json:"env"`
	Audit      map[string]any    `json:"audit"`
	Paths      map[string]string `json:"paths"`
	DB         []map[string]any  `json:"db"`
	Limits     map[string]any    `json:"limits"`
}

type ClusterEnv struct {
	ClusterID  string `json:"cluster-id"`
	InstanceID string `json:"instance-id"`
}

// parseStatus valida la forma y el estado de la respuesta, en este orden:
// objeto con response.metadata, success, archived, deleted.
func parseStatus(raw []byte, id string) (*InstanceStatus, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
		return nil, ErrCorruptResponse.WithDetail("%q", id)
	}
	var st InstanceStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, ErrCorruptResponse.WithDetail("%q", id).WithCause(err)
	}
	if st.Response == nil || st.Response.Metadata == nil {
		return nil, ErrCorruptResponse.WithDetail("%q: missing response.metadata", id)
	}
	if !st.Success {
		return nil, ErrInstanceNotFound.WithDetail("%q", id)
	}
	if st.Response.Archived {
		return nil, ErrInstanceArchived.WithDetail("%q", id)
	}
	if st.Response.Deleted {
		return nil, ErrInstanceDeleted.WithDetail("%q", id)
	}
	return &st, nil
}
