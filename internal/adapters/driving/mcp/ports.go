package mcp

import (
	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
	"github.com/pemre/couchspinner/internal/core/ports/driving"
)

// Loader reads a file from disk into a dropped file.
type Loader func(path string) (domain.RawInput, error)

// Ports aggregates the collaborators required by the MCP server.
type Ports struct {
	// Ingestor runs ingestions and holds the session snapshot.
	Ingestor driving.Ingestor

	// Identity answers identity lookups.
	Identity driving.IdentityService

	// Assets dereferences asset handles. Optional; without it asset
	// contents are not served.
	Assets driven.AssetStore

	// Load reads files for the ingest tool. Optional; without it the
	// ingest tool is not registered.
	Load Loader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingestor == nil {
		return ErrMissingIngestor
	}
	if p.Identity == nil {
		return ErrMissingIdentityService
	}
	return nil
}
