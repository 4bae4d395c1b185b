package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
	"github.com/pemre/couchspinner/internal/logger"
)

// Session keys, relative to the cache namespace.
const (
	keyFileDate = "fileDate"
	keyAssets   = "assets"
	keyDocument = "document"
)

// NewSessionState builds a snapshot and derives its identity index.
func NewSessionState(doc *domain.Document, assets []domain.Asset, fileDate string) domain.SessionState {
	state := domain.SessionState{
		Document: doc,
		Assets:   assets,
		FileDate: fileDate,
	}
	if doc != nil {
		state.Identities = BuildIdentityIndex(*doc)
	} else {
		state.Identities = domain.IdentityIndex{}
	}
	return state
}

// SessionCache persists the latest snapshot in a session-scoped store so it
// survives a reload. Every failure is recovered locally: the cache never
// blocks or fails an ingestion.
type SessionCache struct {
	store     driven.KeyValueStore
	parser    driven.DocumentParser
	reporter  driven.ErrorReporter
	namespace string
}

// NewSessionCache creates a session cache over store. Keys are prefixed with namespace.
func NewSessionCache(
	store driven.KeyValueStore,
	parser driven.DocumentParser,
	reporter driven.ErrorReporter,
	namespace string,
) *SessionCache {
	return &SessionCache{
		store:     store,
		parser:    parser,
		reporter:  reporter,
		namespace: namespace,
	}
}

// Save writes each field of state under its own key. A nil document or an
// empty date removes the key. Failures are logged, reported and swallowed.
func (c *SessionCache) Save(ctx context.Context, state domain.SessionState) {
	c.write(ctx, keyFileDate, state.FileDate, state.FileDate != "")

	assets := state.Assets
	if assets == nil {
		assets = []domain.Asset{}
	}
	if data, err := json.Marshal(assets); err != nil {
		c.fail(ctx, "encode", keyAssets, err)
	} else {
		c.write(ctx, keyAssets, string(data), true)
	}

	if state.Document == nil {
		c.write(ctx, keyDocument, "", false)
		return
	}
	text, err := c.parser.Serialise(*state.Document)
	if err != nil {
		c.fail(ctx, "encode", keyDocument, err)
		return
	}
	c.write(ctx, keyDocument, text, true)
}

// Load reads each field independently. A field that is absent or fails to
// read or decode is left empty. ok is false when nothing usable was found.
func (c *SessionCache) Load(ctx context.Context) (domain.SessionState, bool) {
	fileDate, _ := c.read(ctx, keyFileDate)

	var assets []domain.Asset
	if raw, found := c.read(ctx, keyAssets); found {
		if err := json.Unmarshal([]byte(raw), &assets); err != nil {
			c.fail(ctx, "decode", keyAssets, err)
			assets = nil
		}
	}

	var doc *domain.Document
	if raw, found := c.read(ctx, keyDocument); found {
		parsed, err := c.parser.Parse(raw)
		if err != nil {
			c.fail(ctx, "decode", keyDocument, err)
		} else {
			doc = &parsed
		}
	}

	state := NewSessionState(doc, assets, fileDate)
	return state, doc != nil || len(assets) > 0 || fileDate != ""
}

// Clear removes every session key.
func (c *SessionCache) Clear(ctx context.Context) {
	for _, key := range []string{keyFileDate, keyAssets, keyDocument} {
		c.write(ctx, key, "", false)
	}
}

func (c *SessionCache) read(ctx context.Context, key string) (string, bool) {
	value, err := c.store.Get(ctx, c.namespace+key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.fail(ctx, "read", key, err)
		}
		return "", false
	}
	return value, true
}

func (c *SessionCache) write(ctx context.Context, key, value string, present bool) {
	var err error
	op := "write"
	if present {
		err = c.store.Set(ctx, c.namespace+key, value)
	} else {
		op = "delete"
		err = c.store.Delete(ctx, c.namespace+key)
	}
	if err != nil {
		c.fail(ctx, op, key, err)
	}
}

func (c *SessionCache) fail(ctx context.Context, op, key string, err error) {
	cacheErr := &domain.CacheIOError{Op: op, Key: c.namespace + key, Err: err}
	logger.Event(cacheErr, "session cache failure", map[string]any{"op": op, "key": key})
	if c.reporter != nil {
		c.reporter.Report(ctx, cacheErr, map[string]any{"op": op, "key": key})
	}
}
