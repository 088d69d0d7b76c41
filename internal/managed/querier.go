package managed

// Querier es la vista de solo lectura que consumen storage y la superficie
// HTTP. *Membership la implementa.
type Querier interface {
	IsManagedInstance() bool
	InstanceName() string
	StorageRoot() string
	StoragePath(appendPath string) string
	PrivatePath(appendPath string) string
	OwnerPrivatePath(appendPath string) string
	LogPath() (string, error)
	LogFile(name string) (string, error)
	DatabaseConfig() map[string]any
	Limits() map[string]any
	Limit(key string) (any, bool)
	ConsoleKey() (string, bool)
	Paths() PathSet
}

var _ Querier = (*Membership)(nil)
