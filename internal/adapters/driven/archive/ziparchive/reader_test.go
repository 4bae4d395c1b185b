package ziparchive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pemre/couchspinner/internal/core/domain"
)

// buildZip writes the given entries, in order, into an in-memory archive.
// Names ending in "/" become directory entries.
func buildZip(t *testing.T, entries ...[2]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		require.NoError(t, err)
		if e[1] != "" {
			_, err = w.Write([]byte(e[1]))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpen_CorruptArchive(t *testing.T) {
	r := New(0)

	_, err := r.Open(context.Background(), []byte("definitely not a zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptArchive)
}

func TestOpen_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(0).Open(ctx, buildZip(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntries_PreservesOrder(t *testing.T) {
	content := buildZip(t,
		[2]string{"photos/", ""},
		[2]string{"photos/b.png", "png"},
		[2]string{"data.json", "{}"},
		[2]string{"photos/a.JPG", "jpg"},
	)

	a, err := New(0).Open(context.Background(), content)
	require.NoError(t, err)

	var names []string
	for e := range a.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"photos/", "photos/b.png", "data.json", "photos/a.JPG"}, names)
}

func TestEntries_StopsEarly(t *testing.T) {
	content := buildZip(t, [2]string{"a.json", "1"}, [2]string{"b.json", "2"})

	a, err := New(0).Open(context.Background(), content)
	require.NoError(t, err)

	count := 0
	for range a.Entries() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestMatch(t *testing.T) {
	content := buildZip(t,
		[2]string{"images.json/", ""},
		[2]string{"photos/b.png", "png"},
		[2]string{"data.json", "{}"},
		[2]string{"notes.txt", "hi"},
		[2]string{"photos/a.JPG", "jpg"},
	)

	a, err := New(0).Open(context.Background(), content)
	require.NoError(t, err)

	docs := a.Match(".json")
	require.Len(t, docs, 1)
	assert.Equal(t, "data.json", docs[0].Name)

	images := a.Match(".jpg", ".png")
	require.Len(t, images, 2)
	assert.Equal(t, "photos/b.png", images[0].Name)
	assert.Equal(t, "photos/a.JPG", images[1].Name)

	assert.Empty(t, a.Match(".gif"))
}

func TestEntry_ReadAll(t *testing.T) {
	content := buildZip(t, [2]string{"data.json", `{"a":1}`})

	a, err := New(0).Open(context.Background(), content)
	require.NoError(t, err)

	entries := a.Match(".json")
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].Size)

	data, err := entries[0].ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestEntry_SizeLimit(t *testing.T) {
	content := buildZip(t,
		[2]string{"small.png", "1234"},
		[2]string{"big.png", "0123456789"},
	)

	a, err := New(5).Open(context.Background(), content)
	require.NoError(t, err)

	entries := a.Match(".png")
	require.Len(t, entries, 2)

	data, err := entries[0].ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "1234", string(data))

	_, err = entries[1].ReadAll()
	assert.ErrorIs(t, err, ErrEntryTooLarge)
}

func TestLimitedReadCloser(t *testing.T) {
	content := buildZip(t, [2]string{"big.png", "0123456789"})
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)

	l := &limitedReadCloser{rc: rc, name: "big.png", max: 4}
	_, err = io.ReadAll(l)
	assert.ErrorIs(t, err, ErrEntryTooLarge)
	assert.NoError(t, l.Close())
}
