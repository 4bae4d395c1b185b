// Package mcp provides an MCP (Model Context Protocol) server adapter for couchspinner.
// It lets AI assistants ingest an export and query the resulting session.
package mcp

import "errors"

// ErrMissingIngestor is returned when the ingestion service is not provided.
var ErrMissingIngestor = errors.New("mcp: ingestor is required")

// ErrMissingIdentityService is returned when the identity service is not provided.
var ErrMissingIdentityService = errors.New("mcp: identity service is required")
