package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheBackend_IsValid(t *testing.T) {
	assert.True(t, CacheBackendMemory.IsValid())
	assert.True(t, CacheBackendSQLite.IsValid())
	assert.True(t, CacheBackendNone.IsValid())
	assert.False(t, CacheBackend("redis").IsValid())
	assert.False(t, CacheBackend("").IsValid())
}

func TestCacheBackend_String(t *testing.T) {
	assert.Equal(t, "sqlite", CacheBackendSQLite.String())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.False(t, s.Verbose)
	assert.Equal(t, CacheBackendSQLite, s.Cache.Backend)
	assert.Empty(t, s.Cache.Session)
	assert.Empty(t, s.Cache.Dir)
	assert.Equal(t, "couchspinner.", s.Cache.Namespace)
	assert.Equal(t, 5<<20, s.Cache.QuotaBytes)
	assert.Equal(t, int64(64<<20), s.Archive.MaxEntryBytes)
	assert.Equal(t, 8, s.Archive.DecodeConcurrency)
	assert.Equal(t, 128, s.Identity.MemoSize)
	assert.Equal(t, time.Second, s.Watch.MinInterval)
}
