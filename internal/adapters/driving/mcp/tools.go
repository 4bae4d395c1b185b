package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driving"
	"github.com/pemre/couchspinner/internal/core/services"
)

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"path of a .zip export or .json file to ingest"`
}

// SessionOutput summarises the current session snapshot.
type SessionOutput struct {
	FileDate      string         `json:"file_date,omitempty"`
	Assets        []domain.Asset `json:"assets"`
	IdentityCount int            `json:"identity_count"`
}

// StatusInput is the (empty) input schema for the status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	Phase       string `json:"phase"`
	Processing  bool   `json:"processing"`
	HasSnapshot bool   `json:"has_snapshot"`
	LastError   string `json:"last_error,omitempty"`
}

// LookupInput is the input schema for the lookup_identity tool.
type LookupInput struct {
	PersonID string `json:"person_id" jsonschema:"the person id as it appears in the export"`
}

// FindInput is the input schema for the find_identity tool.
type FindInput struct {
	Query string `json:"query" jsonschema:"username or display name to look for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of matches to return (default 10)"`
}

// FindOutput is the output schema for the find_identity tool.
type FindOutput struct {
	Matches []MatchOutput `json:"matches"`
	Count   int           `json:"count"`
}

// MatchOutput is a single identity match.
type MatchOutput struct {
	PersonID    string  `json:"person_id"`
	DisplayName string  `json:"display_name"`
	Username    string  `json:"username"`
	Score       float64 `json:"score"`
}

// ListInput is the (empty) input schema for the list_identities tool.
type ListInput struct{}

// ListOutput is the output schema for the list_identities tool.
type ListOutput struct {
	Identities []domain.Identity `json:"identities"`
	Count      int               `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	if s.ports.Load != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Ingest a couch-surfing export (.zip) or its JSON file, replacing the current session",
		}, s.handleIngest)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report whether a session is loaded and whether an ingestion is running",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_identity",
		Description: "Resolve a person id from the export to a username and display name",
	}, s.handleLookup)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_identity",
		Description: "Find people met through couch visits by approximate username or display name",
	}, s.handleFind)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_identities",
		Description: "List every person met through couch visits",
	}, s.handleList)
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	if input.Path == "" {
		return nil, SessionOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	if s.ports.Ingestor.IsProcessing() {
		return nil, SessionOutput{}, domain.ErrIngestionInProgress
	}

	raw, err := s.ports.Load(input.Path)
	if err != nil {
		return nil, SessionOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	state, err := s.ports.Ingestor.Ingest(ctx, []domain.RawInput{raw})
	if err != nil {
		return nil, SessionOutput{}, fmt.Errorf("%s: %w", services.UserMessage(err), err)
	}

	return nil, sessionOutput(state), nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status := s.ports.Ingestor.Status()
	return nil, StatusOutput{
		Phase:       string(status.Phase),
		Processing:  status.Processing,
		HasSnapshot: status.HasSnapshot,
		LastError:   status.LastError,
	}, nil
}

// handleLookup handles the lookup_identity tool invocation.
func (s *Server) handleLookup(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input LookupInput,
) (*mcp.CallToolResult, domain.Identity, error) {
	identity, err := s.ports.Identity.Lookup(input.PersonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Identity{}, fmt.Errorf("no identity for person %q", input.PersonID)
		}
		return nil, domain.Identity{}, err
	}
	return nil, identity, nil
}

// handleFind handles the find_identity tool invocation.
func (s *Server) handleFind(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FindInput,
) (*mcp.CallToolResult, FindOutput, error) {
	matches := s.ports.Identity.Find(input.Query, input.Limit)

	output := FindOutput{
		Matches: make([]MatchOutput, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Matches[i] = matchOutput(m)
	}
	return nil, output, nil
}

// handleList handles the list_identities tool invocation.
func (s *Server) handleList(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	identities := s.ports.Identity.List()
	return nil, ListOutput{Identities: identities, Count: len(identities)}, nil
}

func sessionOutput(state domain.SessionState) SessionOutput {
	assets := state.Assets
	if assets == nil {
		assets = []domain.Asset{}
	}
	return SessionOutput{
		FileDate:      state.FileDate,
		Assets:        assets,
		IdentityCount: len(state.Identities),
	}
}

func matchOutput(m driving.IdentityMatch) MatchOutput {
	return MatchOutput{
		PersonID:    m.Identity.PersonID,
		DisplayName: m.Identity.DisplayName,
		Username:    m.Identity.Username,
		Score:       m.Score,
	}
}
