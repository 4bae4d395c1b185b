package driven

import "context"

// KeyValueStore is a session-scoped text store: values survive for the
// lifetime of the process and are lost on restart.
type KeyValueStore interface {
	// Get returns the value for key.
	// Returns domain.ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores or replaces the value for key.
	// May return domain.ErrQuotaExceeded or domain.ErrStorageUnavailable.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
