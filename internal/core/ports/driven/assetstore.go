package driven

import (
	"context"

	"github.com/pemre/couchspinner/internal/core/domain"
)

// AssetStore keeps decoded asset bytes behind opaque handles.
type AssetStore interface {
	// Put stores data and returns a new handle for it.
	Put(ctx context.Context, name, mimeType string, data []byte) (string, error)

	// Get dereferences a handle.
	// Returns domain.ErrNotFound for unknown or released handles.
	Get(ctx context.Context, handle string) (*domain.AssetBlob, error)

	// Release invalidates handles. Unknown handles are ignored.
	Release(ctx context.Context, handles ...string)
}
