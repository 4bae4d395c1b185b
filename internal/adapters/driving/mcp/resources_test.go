package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pemre/couchspinner/internal/adapters/driven/storage/memory"
	"github.com/pemre/couchspinner/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestAssetURI_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"escaped handle", AssetURI("asset:1234"), "asset:1234"},
		{"raw handle", "couchspinner://assets/plain", "plain"},
		{"wrong prefix", "file://assets/asset:1", ""},
		{"bad escape", "couchspinner://assets/%zz", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractAssetHandle(tt.uri))
		})
	}
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no snapshot is not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Ingestor: &mockIngestor{}, Identity: &mockIdentityService{}})

		_, err := server.handleDocumentResource(ctx, makeReadResourceRequest(documentURI))

		assert.Error(t, err)
	})

	t.Run("returns document JSON", func(t *testing.T) {
		doc := &domain.Document{Root: map[string]any{"host_couch_visits": []any{}}}
		ingestor := &mockIngestor{state: domain.SessionState{Document: doc}, has: true}
		server := newTestServer(t, &Ports{Ingestor: ingestor, Identity: &mockIdentityService{}})

		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest(documentURI))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.JSONEq(t, `{"host_couch_visits": []}`, result.Contents[0].Text)
	})
}

func TestServer_handleIdentitiesResource(t *testing.T) {
	identities := &mockIdentityService{identities: []domain.Identity{
		{PersonID: "1", Username: "ada", DisplayName: "Ada"},
	}}
	server := newTestServer(t, &Ports{Ingestor: &mockIngestor{}, Identity: identities})

	result, err := server.handleIdentitiesResource(context.Background(), makeReadResourceRequest(identitiesURI))

	require.NoError(t, err)
	assert.JSONEq(t, `[{"personId": "1", "username": "ada", "displayName": "Ada"}]`, result.Contents[0].Text)
}

func TestServer_AssetResources(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAssetStore()
	handle, err := store.Put(ctx, "a.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)

	ingestor := &mockIngestor{has: true, state: domain.SessionState{
		Document: &domain.Document{Root: map[string]any{}},
		Assets:   []domain.Asset{{Handle: handle, SourceName: "a.png", MIMEType: "image/png", Size: 9}},
	}}
	server := newTestServer(t, &Ports{Ingestor: ingestor, Identity: &mockIdentityService{}, Assets: store})

	t.Run("lists assets with content URIs", func(t *testing.T) {
		result, err := server.handleAssetsResource(ctx, makeReadResourceRequest(assetsURI))
		require.NoError(t, err)

		var infos []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, handle, infos[0]["handle"])
		assert.Equal(t, AssetURI(handle), infos[0]["uri"])
	})

	t.Run("serves asset bytes", func(t *testing.T) {
		result, err := server.handleAssetContentResource(ctx, makeReadResourceRequest(AssetURI(handle)))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "image/png", result.Contents[0].MIMEType)
		assert.Equal(t, []byte("png-bytes"), result.Contents[0].Blob)
	})

	t.Run("released handle is not found", func(t *testing.T) {
		store.Release(ctx, handle)
		_, err := server.handleAssetContentResource(ctx, makeReadResourceRequest(AssetURI(handle)))
		assert.Error(t, err)
	})

	t.Run("empty snapshot lists nothing", func(t *testing.T) {
		empty := newTestServer(t, &Ports{Ingestor: &mockIngestor{}, Identity: &mockIdentityService{}})
		result, err := empty.handleAssetsResource(ctx, makeReadResourceRequest(assetsURI))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}
