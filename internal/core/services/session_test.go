package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pemre/couchspinner/internal/adapters/driven/storage/memory"
	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/normalisers/jsondoc"
)

func TestSessionCache_SaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore(0)
	reporter := &recordingReporter{}
	cache := NewSessionCache(kv, jsondoc.New(), reporter, "ns.")

	doc := mustParse(t, sampleDocument)
	assets := []domain.Asset{{Handle: "asset:1", SourceName: "a.png", MIMEType: "image/png", Size: 3}}
	cache.Save(ctx, NewSessionState(&doc, assets, "2024-05-01T10:00:00Z"))

	state, ok := cache.Load(ctx)

	require.True(t, ok)
	require.NotNil(t, state.Document)
	assert.Equal(t, doc, *state.Document)
	assert.Equal(t, "2024-05-01T10:00:00Z", state.FileDate)
	assert.Equal(t, assets, state.Assets)
	assert.Equal(t, BuildIdentityIndex(doc), state.Identities)
	assert.Empty(t, reporter.all())

	raw, err := kv.Get(ctx, "ns.fileDate")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", raw)
}

func TestSessionCache_Load_Empty(t *testing.T) {
	reporter := &recordingReporter{}
	cache := NewSessionCache(memory.NewKeyValueStore(0), jsondoc.New(), reporter, "ns.")

	state, ok := cache.Load(context.Background())

	assert.False(t, ok)
	assert.Nil(t, state.Document)
	assert.Empty(t, state.Assets)
	assert.Empty(t, state.FileDate)
	assert.Empty(t, reporter.all(), "absent keys are not failures")
}

func TestSessionCache_StorageFailure_NeverPropagates(t *testing.T) {
	ctx := context.Background()
	reporter := &recordingReporter{}
	cache := NewSessionCache(memory.DisabledKeyValueStore{}, jsondoc.New(), reporter, "ns.")

	doc := mustParse(t, `{"a": 1}`)
	assert.NotPanics(t, func() {
		cache.Save(ctx, NewSessionState(&doc, nil, "2024-01-01T00:00:00Z"))
	})

	state, ok := cache.Load(ctx)

	assert.False(t, ok)
	assert.Nil(t, state.Document)
	assert.Nil(t, state.Assets)
	assert.Empty(t, state.FileDate)

	reports := reporter.all()
	require.Len(t, reports, 6, "three failed writes and three failed reads")
	for _, r := range reports {
		assert.ErrorIs(t, r.err, domain.ErrCacheIO)
		assert.ErrorIs(t, r.err, domain.ErrStorageUnavailable)
	}
}

func TestSessionCache_QuotaExceeded_KeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore(200)
	reporter := &recordingReporter{}
	cache := NewSessionCache(kv, jsondoc.New(), reporter, "ns.")

	big := mustParse(t, `{"blob": "`+strings.Repeat("x", 300)+`"}`)
	cache.Save(ctx, NewSessionState(&big, []domain.Asset{}, "2024-01-01T00:00:00Z"))

	reports := reporter.all()
	require.Len(t, reports, 1)
	assert.ErrorIs(t, reports[0].err, domain.ErrQuotaExceeded)
	assert.Equal(t, "write", reports[0].fields["op"])
	assert.Equal(t, "document", reports[0].fields["key"])

	state, ok := cache.Load(ctx)
	assert.True(t, ok)
	assert.Nil(t, state.Document)
	assert.Equal(t, "2024-01-01T00:00:00Z", state.FileDate)
	assert.NotNil(t, state.Assets)
}

func TestSessionCache_Load_NonConformingData(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore(0)
	require.NoError(t, kv.Set(ctx, "ns.document", "{not json"))
	require.NoError(t, kv.Set(ctx, "ns.assets", `{"not": "an array"}`))
	require.NoError(t, kv.Set(ctx, "ns.fileDate", "2024-01-01T00:00:00Z"))
	reporter := &recordingReporter{}
	cache := NewSessionCache(kv, jsondoc.New(), reporter, "ns.")

	state, ok := cache.Load(ctx)

	assert.True(t, ok)
	assert.Nil(t, state.Document)
	assert.Nil(t, state.Assets)
	assert.Equal(t, "2024-01-01T00:00:00Z", state.FileDate)
	assert.Empty(t, state.Identities)

	reports := reporter.all()
	require.Len(t, reports, 2)
	assert.ErrorIs(t, reports[0].err, domain.ErrCacheIO)
	assert.ErrorIs(t, reports[1].err, domain.ErrMalformedDocument)
}

func TestSessionCache_Save_NilDocumentRemovesKeys(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore(0)
	cache := NewSessionCache(kv, jsondoc.New(), &recordingReporter{}, "ns.")

	doc := mustParse(t, `{}`)
	cache.Save(ctx, NewSessionState(&doc, nil, "2024-01-01T00:00:00Z"))
	cache.Save(ctx, NewSessionState(nil, nil, ""))

	_, err := kv.Get(ctx, "ns.document")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = kv.Get(ctx, "ns.fileDate")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assets, err := kv.Get(ctx, "ns.assets")
	require.NoError(t, err)
	assert.Equal(t, "[]", assets)
}

func TestSessionCache_Clear(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore(0)
	cache := NewSessionCache(kv, jsondoc.New(), &recordingReporter{}, "ns.")

	doc := mustParse(t, `{}`)
	cache.Save(ctx, NewSessionState(&doc, nil, "2024-01-01T00:00:00Z"))
	cache.Clear(ctx)

	assert.Zero(t, kv.Used())
	_, ok := cache.Load(ctx)
	assert.False(t, ok)
}

func TestNewSessionState_DerivesIdentities(t *testing.T) {
	doc := mustParse(t, sampleDocument)

	state := NewSessionState(&doc, nil, "")

	assert.Len(t, state.Identities, 2)
	assert.NotNil(t, NewSessionState(nil, nil, "").Identities)
}
