package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driving"
)

// mockIngestor is a mock implementation of driving.Ingestor.
type mockIngestor struct {
	state      domain.SessionState
	has        bool
	err        error
	processing bool
	status     driving.IngestionStatus
	received   [][]domain.RawInput
}

func (m *mockIngestor) Ingest(_ context.Context, inputs []domain.RawInput) (domain.SessionState, error) {
	m.received = append(m.received, inputs)
	return m.state, m.err
}

func (m *mockIngestor) Snapshot() (domain.SessionState, bool) {
	return m.state, m.has
}

func (m *mockIngestor) Status() driving.IngestionStatus {
	return m.status
}

func (m *mockIngestor) IsProcessing() bool {
	return m.processing
}

// mockIdentityService is a mock implementation of driving.IdentityService.
type mockIdentityService struct {
	identities []domain.Identity
	matches    []driving.IdentityMatch
	err        error
	lastQuery  string
	lastLimit  int
}

func (m *mockIdentityService) Lookup(personID string) (domain.Identity, error) {
	if m.err != nil {
		return domain.Identity{}, m.err
	}
	for _, id := range m.identities {
		if id.PersonID == personID {
			return id, nil
		}
	}
	return domain.Identity{}, domain.ErrNotFound
}

func (m *mockIdentityService) List() []domain.Identity {
	return m.identities
}

func (m *mockIdentityService) Find(query string, limit int) []driving.IdentityMatch {
	m.lastQuery = query
	m.lastLimit = limit
	return m.matches
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}
