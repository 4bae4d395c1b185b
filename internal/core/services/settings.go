package services

import (
	"fmt"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
	"github.com/pemre/couchspinner/internal/logger"
)

// Config keys for settings storage.
const (
	KeyVerbose           = "verbose"
	KeyCacheBackend      = "cache.backend"
	KeyCacheNamespace    = "cache.namespace"
	KeyCacheSession      = "cache.session"
	KeyCacheDir          = "cache.dir"
	KeyCacheQuotaBytes   = "cache.quota_bytes"
	KeyArchiveMaxEntry   = "archive.max_entry_bytes"
	KeyArchiveDecodeJobs = "archive.decode_concurrency"
	KeyIdentityMemoSize  = "identity.memo_size"
	KeyWatchMinInterval  = "watch.min_interval"
)

// SettingKeys lists every recognised config key.
var SettingKeys = []string{
	KeyVerbose,
	KeyCacheBackend,
	KeyCacheNamespace,
	KeyCacheSession,
	KeyCacheDir,
	KeyCacheQuotaBytes,
	KeyArchiveMaxEntry,
	KeyArchiveDecodeJobs,
	KeyIdentityMemoSize,
	KeyWatchMinInterval,
}

// LoadSettings reads settings from store, falling back to defaults for
// missing or invalid values.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()
	if store == nil {
		return s
	}

	s.Verbose = store.GetBool(KeyVerbose)

	if v := store.GetString(KeyCacheBackend); v != "" {
		backend := domain.CacheBackend(v)
		if backend.IsValid() {
			s.Cache.Backend = backend
		} else {
			logger.Warn("Ignoring unknown %s %q", KeyCacheBackend, v)
		}
	}
	s.Cache.Namespace = getString(store, KeyCacheNamespace, s.Cache.Namespace)
	s.Cache.Session = getString(store, KeyCacheSession, s.Cache.Session)
	s.Cache.Dir = getString(store, KeyCacheDir, s.Cache.Dir)
	s.Cache.QuotaBytes = getNonNegative(store, KeyCacheQuotaBytes, s.Cache.QuotaBytes)

	s.Archive.MaxEntryBytes = int64(getNonNegative(store, KeyArchiveMaxEntry, int(s.Archive.MaxEntryBytes)))
	s.Archive.DecodeConcurrency = getPositive(store, KeyArchiveDecodeJobs, s.Archive.DecodeConcurrency)

	s.Identity.MemoSize = getPositive(store, KeyIdentityMemoSize, s.Identity.MemoSize)

	if d := store.GetDuration(KeyWatchMinInterval); d > 0 {
		s.Watch.MinInterval = d
	}

	return s
}

// ValidateSettings checks settings after environment overrides are applied.
func ValidateSettings(s domain.Settings) error {
	if !s.Cache.Backend.IsValid() {
		return fmt.Errorf("%w: cache backend %q", domain.ErrInvalidInput, s.Cache.Backend)
	}
	if s.Cache.QuotaBytes < 0 {
		return fmt.Errorf("%w: cache quota %d", domain.ErrInvalidInput, s.Cache.QuotaBytes)
	}
	if s.Archive.MaxEntryBytes < 0 {
		return fmt.Errorf("%w: archive entry limit %d", domain.ErrInvalidInput, s.Archive.MaxEntryBytes)
	}
	if s.Archive.DecodeConcurrency <= 0 {
		return fmt.Errorf("%w: decode concurrency %d", domain.ErrInvalidInput, s.Archive.DecodeConcurrency)
	}
	if s.Identity.MemoSize <= 0 {
		return fmt.Errorf("%w: identity memo size %d", domain.ErrInvalidInput, s.Identity.MemoSize)
	}
	if s.Watch.MinInterval < 0 {
		return fmt.Errorf("%w: watch interval %s", domain.ErrInvalidInput, s.Watch.MinInterval)
	}
	return nil
}

func getString(store driven.ConfigStore, key, defaultVal string) string {
	val, ok := store.Get(key)
	if !ok {
		return defaultVal
	}
	if s, ok := val.(string); ok {
		return s
	}
	return defaultVal
}

// getNonNegative accepts zero, which disables a limit.
func getNonNegative(store driven.ConfigStore, key string, defaultVal int) int {
	val, ok := store.Get(key)
	if !ok {
		return defaultVal
	}
	switch val.(type) {
	case int, int64:
		if v := store.GetInt(key); v >= 0 {
			return v
		}
	}
	logger.Warn("Ignoring invalid %s %v", key, val)
	return defaultVal
}

func getPositive(store driven.ConfigStore, key string, defaultVal int) int {
	if v := store.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}
