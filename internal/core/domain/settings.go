package domain

import "time"

// CacheBackend identifies the session store implementation.
type CacheBackend string

// Available cache backends.
const (
	// CacheBackendMemory keeps the session in process memory. Nothing is
	// restored by the next invocation.
	CacheBackendMemory CacheBackend = "memory"

	// CacheBackendSQLite keeps the session in a SQLite file shared by every
	// invocation of the same session.
	CacheBackendSQLite CacheBackend = "sqlite"

	// CacheBackendNone disables the session store; every access fails.
	CacheBackendNone CacheBackend = "none"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendMemory, CacheBackendSQLite, CacheBackendNone:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// Settings holds user-configurable application settings.
type Settings struct {
	Verbose  bool             `envconfig:"VERBOSE"`
	Cache    CacheSettings    `envconfig:"CACHE"`
	Archive  ArchiveSettings  `envconfig:"ARCHIVE"`
	Identity IdentitySettings `envconfig:"IDENTITY"`
	Watch    WatchSettings    `envconfig:"WATCH"`
}

// CacheSettings configures the session cache.
type CacheSettings struct {
	// Backend selects the session store.
	Backend CacheBackend `envconfig:"BACKEND"`

	// Namespace prefixes every session key.
	Namespace string `envconfig:"NAMESPACE"`

	// Session names the session whose snapshot is shared. Empty means the
	// parent process, so every invocation from one shell shares a snapshot.
	Session string `envconfig:"SESSION"`

	// Dir holds session files. Empty means the system temp directory.
	Dir string `envconfig:"DIR"`

	// QuotaBytes caps the total size of stored values. Zero means unlimited.
	QuotaBytes int `envconfig:"QUOTA_BYTES"`
}

// ArchiveSettings configures archive extraction.
type ArchiveSettings struct {
	// MaxEntryBytes caps the decoded size of a single entry. Zero means unlimited.
	MaxEntryBytes int64 `envconfig:"MAX_ENTRY_BYTES"`

	// DecodeConcurrency caps parallel asset decodes.
	DecodeConcurrency int `envconfig:"DECODE_CONCURRENCY"`
}

// IdentitySettings configures identity lookups.
type IdentitySettings struct {
	// MemoSize is the number of fuzzy lookup results kept per snapshot.
	MemoSize int `envconfig:"MEMO_SIZE"`
}

// WatchSettings configures watch mode.
type WatchSettings struct {
	// MinInterval is the minimum time between two re-ingestions.
	MinInterval time.Duration `envconfig:"MIN_INTERVAL"`
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Cache: CacheSettings{
			Backend:    CacheBackendSQLite,
			Namespace:  "couchspinner.",
			QuotaBytes: 5 << 20,
		},
		Archive: ArchiveSettings{
			MaxEntryBytes:     64 << 20,
			DecodeConcurrency: 8,
		},
		Identity: IdentitySettings{
			MemoSize: 128,
		},
		Watch: WatchSettings{
			MinInterval: time.Second,
		},
	}
}
