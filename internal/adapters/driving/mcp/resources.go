package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pemre/couchspinner/internal/core/domain"
)

// uriScheme is the custom URI scheme for couchspinner resources.
const uriScheme = "couchspinner://"

const (
	documentURI   = uriScheme + "document"
	identitiesURI = uriScheme + "identities"
	assetsURI     = uriScheme + "assets"
	assetPrefix   = assetsURI + "/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         documentURI,
		Name:        "document",
		Description: "The ingested export document as JSON",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)

	s.server.AddResource(&mcp.Resource{
		URI:         identitiesURI,
		Name:        "identities",
		Description: "People met through couch visits, ordered by person id",
		MIMEType:    "application/json",
	}, s.handleIdentitiesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         assetsURI,
		Name:        "assets",
		Description: "Images extracted from the export",
		MIMEType:    "application/json",
	}, s.handleAssetsResource)

	if s.ports.Assets != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: assetPrefix + "{handle}",
			Name:        "asset-content",
			Description: "Bytes of a single extracted image",
		}, s.handleAssetContentResource)
	}
}

// handleDocumentResource returns the current document.
func (s *Server) handleDocumentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	state, ok := s.ports.Ingestor.Snapshot()
	if !ok || state.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, state.Document.Root)
}

// handleIdentitiesResource returns every identity of the current snapshot.
func (s *Server) handleIdentitiesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResult(req.Params.URI, s.ports.Identity.List())
}

// assetInfo is asset metadata plus the resource serving its bytes.
type assetInfo struct {
	domain.Asset
	URI string `json:"uri,omitempty"`
}

// handleAssetsResource returns the asset metadata of the current snapshot.
func (s *Server) handleAssetsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := []assetInfo{}
	if state, ok := s.ports.Ingestor.Snapshot(); ok {
		for _, a := range state.Assets {
			info := assetInfo{Asset: a}
			if s.ports.Assets != nil {
				info.URI = AssetURI(a.Handle)
			}
			infos = append(infos, info)
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleAssetContentResource returns the bytes behind an asset handle.
func (s *Server) handleAssetContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	handle := extractAssetHandle(req.Params.URI)
	if handle == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	blob, err := s.ports.Assets.Get(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting asset: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: blob.MIMEType,
			Blob:     blob.Data,
		}},
	}, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// AssetURI returns the resource URI serving the bytes behind handle.
func AssetURI(handle string) string {
	return assetPrefix + url.QueryEscape(handle)
}

// extractAssetHandle extracts the handle from a URI like couchspinner://assets/{handle}.
func extractAssetHandle(uri string) string {
	if !strings.HasPrefix(uri, assetPrefix) {
		return ""
	}
	handle, err := url.QueryUnescape(strings.TrimPrefix(uri, assetPrefix))
	if err != nil {
		return ""
	}
	return handle
}
