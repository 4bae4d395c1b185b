package memory

import (
	"context"
	"sync"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
)

// Ensure KeyValueStore implements the interface.
var _ driven.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStore is an in-memory implementation of driven.KeyValueStore.
// Like a browser session store it enforces an optional byte quota over
// the sum of key and value lengths.
type KeyValueStore struct {
	mu     sync.RWMutex
	values map[string]string
	used   int
	quota  int
}

// NewKeyValueStore creates a new in-memory key-value store.
// A quota of zero or less disables the limit.
func NewKeyValueStore(quota int) *KeyValueStore {
	return &KeyValueStore{
		values: make(map[string]string),
		quota:  quota,
	}
}

// Get retrieves the value for key.
func (s *KeyValueStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return val, nil
}

// Set stores or replaces the value for key.
// The write is rejected whole if it would exceed the quota.
func (s *KeyValueStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used + len(key) + len(value)
	if old, ok := s.values[key]; ok {
		used -= len(key) + len(old)
	}
	if s.quota > 0 && used > s.quota {
		return domain.ErrQuotaExceeded
	}

	s.values[key] = value
	s.used = used
	return nil
}

// Delete removes key.
func (s *KeyValueStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.values, key)
	}
	return nil
}

// Used returns the number of bytes currently counted against the quota.
func (s *KeyValueStore) Used() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

// Ensure DisabledKeyValueStore implements the interface.
var _ driven.KeyValueStore = DisabledKeyValueStore{}

// DisabledKeyValueStore models storage that is switched off: every
// operation fails with domain.ErrStorageUnavailable.
type DisabledKeyValueStore struct{}

// Get always fails.
func (DisabledKeyValueStore) Get(context.Context, string) (string, error) {
	return "", domain.ErrStorageUnavailable
}

// Set always fails.
func (DisabledKeyValueStore) Set(context.Context, string, string) error {
	return domain.ErrStorageUnavailable
}

// Delete always fails.
func (DisabledKeyValueStore) Delete(context.Context, string) error {
	return domain.ErrStorageUnavailable
}
