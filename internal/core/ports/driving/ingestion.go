package driving

import (
	"context"

	"github.com/pemre/couchspinner/internal/core/domain"
)

// Ingestor accepts dropped files and exposes the resulting snapshot.
type Ingestor interface {
	// Ingest processes exactly one file. On failure the previous snapshot
	// is kept and returned alongside the error.
	Ingest(ctx context.Context, inputs []domain.RawInput) (domain.SessionState, error)

	// Snapshot returns the current snapshot and whether one exists.
	Snapshot() (domain.SessionState, bool)

	// Status returns the current state machine status.
	Status() IngestionStatus

	// IsProcessing reports whether an ingestion is running.
	// Advisory only: callers use it to discourage overlapping drops.
	IsProcessing() bool
}

// Phase is a state of the ingestion state machine.
type Phase string

// Ingestion phases.
const (
	// PhaseIdle means nothing has been ingested yet.
	PhaseIdle Phase = "idle"

	// PhaseProcessing means an ingestion is running.
	PhaseProcessing Phase = "processing"

	// PhaseReady means a snapshot is available.
	PhaseReady Phase = "ready"
)

// IngestionStatus represents the state of the ingestion state machine.
type IngestionStatus struct {
	// Phase is the current phase. A failed ingestion returns to Idle, or to
	// Ready when an earlier snapshot survives, with LastError set.
	Phase Phase

	// Processing is true while an ingestion runs.
	Processing bool

	// HasSnapshot is true when a snapshot is available.
	HasSnapshot bool

	// LastError is the display message of the last failure, if any.
	LastError string
}
