package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pemre/couchspinner/internal/adapters/driven/archive/ziparchive"
	"github.com/pemre/couchspinner/internal/adapters/driven/storage/memory"
	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
	"github.com/pemre/couchspinner/internal/normalisers/jsondoc"
)

// Image payloads with real magic numbers so MIME sniffing has something to find.
var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00")
)

const sampleDocument = `{
  "host_couch_visits": [
    {"surfer": {"id": 1, "profile": {"username": "ada", "display_name": "Ada L"}}}
  ],
  "surf_couch_visits": [
    {"host": {"id": "x9", "profile": {"username": "bob", "display_name": "Bob M"}}}
  ]
}`

type zipFile struct {
	name string
	data []byte
}

func buildZip(t *testing.T, files ...zipFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.Create(f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func openZip(t *testing.T, files ...zipFile) driven.Archive {
	t.Helper()
	archive, err := ziparchive.New(0).Open(context.Background(), buildZip(t, files...))
	require.NoError(t, err)
	return archive
}

func archiveInput(t *testing.T, files ...zipFile) domain.RawInput {
	t.Helper()
	return domain.RawInput{
		Name:      "export.zip",
		MediaType: "application/zip",
		Content:   buildZip(t, files...),
	}
}

func documentInput(text string) domain.RawInput {
	return domain.RawInput{
		Name:      "export.json",
		MediaType: "application/json",
		Content:   []byte(text),
	}
}

func mustParse(t *testing.T, text string) domain.Document {
	t.Helper()
	doc, err := jsondoc.New().Parse(text)
	require.NoError(t, err)
	return doc
}

// --- Fakes ---

type recordingPresenter struct {
	mu        sync.Mutex
	presented []domain.SessionState
	scrolls   int
	errors    []string
}

func (p *recordingPresenter) Present(_ context.Context, state domain.SessionState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presented = append(p.presented, state)
}

func (p *recordingPresenter) ScrollToTop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolls++
}

func (p *recordingPresenter) NotifyError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, message)
}

type reported struct {
	err    error
	fields map[string]any
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []reported
}

func (r *recordingReporter) Report(_ context.Context, err error, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, reported{err: err, fields: fields})
}

func (r *recordingReporter) all() []reported {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]reported(nil), r.reports...)
}

// failingKeyValueStore fails every operation, like a disabled browser store.
type failingKeyValueStore struct {
	err error
}

func (s failingKeyValueStore) Get(context.Context, string) (string, error) { return "", s.err }
func (s failingKeyValueStore) Set(context.Context, string, string) error   { return s.err }
func (s failingKeyValueStore) Delete(context.Context, string) error        { return s.err }

// flakyAssetStore fails the Put of one named entry.
type flakyAssetStore struct {
	*memory.AssetStore
	failOn string
}

func (s *flakyAssetStore) Put(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	if name == s.failOn {
		return "", errors.New("store rejected asset")
	}
	return s.AssetStore.Put(ctx, name, mimeType, data)
}

type testRig struct {
	orchestrator *IngestionOrchestrator
	assets       *memory.AssetStore
	kv           *memory.KeyValueStore
	cache        *SessionCache
	presenter    *recordingPresenter
	reporter     *recordingReporter
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	kv := memory.NewKeyValueStore(0)
	return newTestRigWithStore(t, kv, kv)
}

func newTestRigWithStore(t *testing.T, store driven.KeyValueStore, kv *memory.KeyValueStore) *testRig {
	t.Helper()
	assets := memory.NewAssetStore()
	parser := jsondoc.New()
	reporter := &recordingReporter{}
	presenter := &recordingPresenter{}
	cache := NewSessionCache(store, parser, reporter, "test.")

	o := NewIngestionOrchestrator(
		context.Background(),
		ziparchive.New(0),
		NewPayloadExtractor(assets, 4),
		parser,
		assets,
		cache,
		reporter,
		presenter,
	)
	return &testRig{
		orchestrator: o,
		assets:       assets,
		kv:           kv,
		cache:        cache,
		presenter:    presenter,
		reporter:     reporter,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
