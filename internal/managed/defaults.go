package managed

import "time"

const (
	// ManifestFile es el nombre del manifest que se busca subiendo desde StartDir.
	ManifestFile = ".dfe.cluster.json"

	// CacheKeyPrefix se antepone al host name para la key del snapshot.
	CacheKeyPrefix = "dfe.managed.config."

	// CacheTTL es el tiempo que se conserva el snapshot {paths, config}.
	CacheTTL = 5 * time.Minute

	// ConsoleTimeout acota cada llamada al console.
	ConsoleTimeout = 30 * time.Second

	// DefaultSignatureMethod firma el access token si el manifest no declara uno.
	DefaultSignatureMethod = "sha256"

	// PrivateLogPathName es el subdirectorio de logs bajo private-path.
	PrivateLogPathName = "logs"

	// ConsoleKeyHeader es el header con el que consumidores presentan ConsoleKey().
	ConsoleKeyHeader = "X-DreamFactory-Console-Key"
)

// Keys semánticas del PathSet.
const (
	KeyStorageRoot      = "storage-root"
	KeyStoragePath      = "storage-path"
	KeyPrivatePath      = "private-path"
	KeyOwnerPrivatePath = "owner-private-path"
	KeyLogPath          = "log-path"
)
