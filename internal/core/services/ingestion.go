package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
	"github.com/pemre/couchspinner/internal/core/ports/driving"
	"github.com/pemre/couchspinner/internal/logger"
)

// Ensure IngestionOrchestrator implements the interface.
var _ driving.Ingestor = (*IngestionOrchestrator)(nil)

// IngestionOrchestrator turns one dropped file into a session snapshot.
type IngestionOrchestrator struct {
	reader    driven.ArchiveReader
	extractor *PayloadExtractor
	parser    driven.DocumentParser
	assets    driven.AssetStore
	cache     *SessionCache
	reporter  driven.ErrorReporter
	presenter driven.Presenter

	// processing counts running ingestions. Advisory only.
	processing atomic.Int32

	// commitMu orders whole commits, including their cache writes.
	commitMu sync.Mutex

	mu       sync.RWMutex
	state    domain.SessionState
	hasState bool
	lastErr  string
}

// NewIngestionOrchestrator creates an orchestrator and restores the last
// snapshot from the session cache. cache, reporter and presenter are optional.
func NewIngestionOrchestrator(
	ctx context.Context,
	reader driven.ArchiveReader,
	extractor *PayloadExtractor,
	parser driven.DocumentParser,
	assets driven.AssetStore,
	cache *SessionCache,
	reporter driven.ErrorReporter,
	presenter driven.Presenter,
) *IngestionOrchestrator {
	o := &IngestionOrchestrator{
		reader:    reader,
		extractor: extractor,
		parser:    parser,
		assets:    assets,
		cache:     cache,
		reporter:  reporter,
		presenter: presenter,
	}

	if cache != nil {
		if state, ok := cache.Load(ctx); ok && !state.Empty() {
			o.state = state
			o.hasState = true
			logger.Debug("Restored session snapshot from %s", state.FileDate)
		}
	}

	return o
}

// Ingest processes exactly one file. On success the snapshot is replaced
// wholesale and presented. On failure the previous snapshot stays in place,
// is returned alongside the error, and the presenter is told why.
func (o *IngestionOrchestrator) Ingest(ctx context.Context, inputs []domain.RawInput) (domain.SessionState, error) {
	o.processing.Add(1)
	defer o.processing.Add(-1)

	state, err := o.ingest(ctx, inputs)
	if err != nil {
		o.fail(ctx, inputs, err)
		prev, _ := o.Snapshot()
		return prev, err
	}

	o.commit(ctx, state)
	return cloneState(state), nil
}

func (o *IngestionOrchestrator) ingest(ctx context.Context, inputs []domain.RawInput) (domain.SessionState, error) {
	// 1. Exactly one file
	switch {
	case len(inputs) == 0:
		return domain.SessionState{}, domain.ErrNoFiles
	case len(inputs) > 1:
		return domain.SessionState{}, domain.ErrMultipleFiles
	}
	input := inputs[0]

	// 2. Archive or document
	mediaType, ok := domain.ParseMediaType(input.MediaType)
	if !ok {
		return domain.SessionState{}, &domain.UnsupportedTypeError{MediaType: input.MediaType}
	}

	// 3. Timestamp
	fileDate := formatFileDate(input.ModTime)

	logger.Section("Ingest")
	logger.Info("Ingesting %s (%s, %d bytes)", input.Name, mediaType, len(input.Content))

	// 4. Payload
	var (
		doc    domain.Document
		assets []domain.Asset
		err    error
	)
	switch mediaType {
	case domain.MediaTypeArchive:
		doc, assets, err = o.ingestArchive(ctx, input.Content)
	default:
		doc, err = o.parser.Parse(DecodeText(input.Content))
		assets = []domain.Asset{}
	}
	if err != nil {
		return domain.SessionState{}, err
	}

	return NewSessionState(&doc, assets, fileDate), nil
}

func (o *IngestionOrchestrator) ingestArchive(ctx context.Context, content []byte) (domain.Document, []domain.Asset, error) {
	archive, err := o.reader.Open(ctx, content)
	if err != nil {
		return domain.Document{}, nil, err
	}

	text, found, err := o.extractor.ExtractDocumentText(ctx, archive)
	if err != nil {
		return domain.Document{}, nil, err
	}
	if !found {
		return domain.Document{}, nil, domain.ErrNoDocumentFound
	}

	doc, err := o.parser.Parse(text)
	if err != nil {
		return domain.Document{}, nil, err
	}

	assets, err := o.extractor.ExtractAssets(ctx, archive)
	if err != nil {
		return domain.Document{}, nil, err
	}

	return doc, assets, nil
}

// commit swaps in the new snapshot, releases the handles of the old one,
// saves it and presents it.
func (o *IngestionOrchestrator) commit(ctx context.Context, state domain.SessionState) {
	o.commitMu.Lock()
	defer o.commitMu.Unlock()

	o.mu.Lock()
	prev, hadState := o.state, o.hasState
	o.state = state
	o.hasState = true
	o.lastErr = ""
	o.mu.Unlock()

	if hadState {
		o.assets.Release(ctx, prev.AssetHandles()...)
	}

	if o.cache != nil {
		o.cache.Save(ctx, state)
	}

	logger.Info("Ingested document with %d assets and %d identities", len(state.Assets), len(state.Identities))

	if o.presenter != nil {
		o.presenter.Present(ctx, cloneState(state))
		o.presenter.ScrollToTop()
	}
}

func (o *IngestionOrchestrator) fail(ctx context.Context, inputs []domain.RawInput, err error) {
	message := UserMessage(err)

	o.mu.Lock()
	o.lastErr = message
	o.mu.Unlock()

	logger.Warn("Ingestion failed: %v", err)

	if o.reporter != nil && reportable(err) {
		fields := map[string]any{"error_kind": errorKind(err)}
		if len(inputs) == 1 {
			fields["file"] = inputs[0].Name
		}
		o.reporter.Report(ctx, err, fields)
	}

	if o.presenter != nil {
		o.presenter.NotifyError(message)
	}
}

// Snapshot returns the current snapshot and whether one exists.
func (o *IngestionOrchestrator) Snapshot() (domain.SessionState, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return cloneState(o.state), o.hasState
}

// cloneState copies the identity index and asset list so callers cannot
// change the committed snapshot. The document is shared read-only.
func cloneState(s domain.SessionState) domain.SessionState {
	s.Identities = maps.Clone(s.Identities)
	s.Assets = slices.Clone(s.Assets)
	return s
}

// Status returns the current state machine status.
func (o *IngestionOrchestrator) Status() driving.IngestionStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	status := driving.IngestionStatus{
		Phase:       driving.PhaseIdle,
		Processing:  o.IsProcessing(),
		HasSnapshot: o.hasState,
		LastError:   o.lastErr,
	}
	switch {
	case status.Processing:
		status.Phase = driving.PhaseProcessing
	case o.hasState:
		status.Phase = driving.PhaseReady
	}
	return status
}

// IsProcessing reports whether an ingestion is running.
func (o *IngestionOrchestrator) IsProcessing() bool {
	return o.processing.Load() > 0
}

func formatFileDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// reportable reports whether err concerns the payload rather than the drop
// itself. Input count and type errors are user mistakes.
func reportable(err error) bool {
	return !errors.Is(err, domain.ErrInputCount) && !errors.Is(err, domain.ErrUnsupportedType)
}

func errorKind(err error) string {
	for _, kind := range []error{
		domain.ErrCorruptArchive,
		domain.ErrNoDocumentFound,
		domain.ErrMalformedDocument,
		domain.ErrAssetDecode,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return fmt.Sprintf("%T", err)
}
