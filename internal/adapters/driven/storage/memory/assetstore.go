package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
)

// Ensure AssetStore implements the interface.
var _ driven.AssetStore = (*AssetStore)(nil)

// handlePrefix marks asset handles, like the blob: scheme of object URLs.
const handlePrefix = "asset:"

// AssetStore is an in-memory implementation of driven.AssetStore.
// Bytes are held until their handle is released.
type AssetStore struct {
	mu    sync.RWMutex
	blobs map[string]domain.AssetBlob
}

// NewAssetStore creates a new in-memory asset store.
func NewAssetStore() *AssetStore {
	return &AssetStore{
		blobs: make(map[string]domain.AssetBlob),
	}
}

// Put stores data under a fresh handle.
func (s *AssetStore) Put(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	handle := handlePrefix + uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[handle] = domain.AssetBlob{
		Handle:   handle,
		Name:     name,
		MIMEType: mimeType,
		Data:     data,
	}
	return handle, nil
}

// Get dereferences a handle.
func (s *AssetStore) Get(_ context.Context, handle string) (*domain.AssetBlob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[handle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &blob, nil
}

// Release drops the bytes behind the given handles.
func (s *AssetStore) Release(_ context.Context, handles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range handles {
		delete(s.blobs, h)
	}
}

// Len returns the number of live handles.
func (s *AssetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
