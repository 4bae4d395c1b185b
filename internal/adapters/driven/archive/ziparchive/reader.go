// Package ziparchive implements driven.ArchiveReader over zip containers
// held in memory.
package ziparchive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.ArchiveReader = (*Reader)(nil)

// ErrEntryTooLarge is returned when an entry exceeds the configured size limit.
var ErrEntryTooLarge = errors.New("archive entry too large")

// Reader opens zip archives from byte slices.
type Reader struct {
	maxEntryBytes int64
}

// New creates a zip reader. A maxEntryBytes of zero disables the entry size limit.
func New(maxEntryBytes int64) *Reader {
	return &Reader{maxEntryBytes: maxEntryBytes}
}

// Open parses the zip central directory. Entry content is not read.
func (r *Reader) Open(ctx context.Context, content []byte) (driven.Archive, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptArchive, err)
	}

	return &archive{reader: zr, maxEntryBytes: r.maxEntryBytes}, nil
}

// archive implements driven.Archive.
type archive struct {
	reader        *zip.Reader
	maxEntryBytes int64
}

var _ driven.Archive = (*archive)(nil)

// Entries enumerates every entry in central directory order.
func (a *archive) Entries() iter.Seq[domain.ArchiveEntry] {
	return func(yield func(domain.ArchiveEntry) bool) {
		for _, f := range a.reader.File {
			if !yield(a.entry(f)) {
				return
			}
		}
	}
}

// Match returns file entries with one of the given lowercase extensions.
func (a *archive) Match(exts ...string) []domain.ArchiveEntry {
	var matched []domain.ArchiveEntry
	for entry := range a.Entries() {
		if entry.Dir {
			continue
		}
		if slices.Contains(exts, entry.Ext()) {
			matched = append(matched, entry)
		}
	}
	return matched
}

func (a *archive) entry(f *zip.File) domain.ArchiveEntry {
	size := int64(f.UncompressedSize64)
	return domain.NewArchiveEntry(f.Name, f.FileInfo().IsDir(), size, func() (io.ReadCloser, error) {
		if a.maxEntryBytes > 0 && size > a.maxEntryBytes {
			return nil, fmt.Errorf("%w: %q declares %d bytes", ErrEntryTooLarge, f.Name, size)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		if a.maxEntryBytes <= 0 {
			return rc, nil
		}
		return &limitedReadCloser{rc: rc, name: f.Name, max: a.maxEntryBytes}, nil
	})
}

// limitedReadCloser fails once more than max bytes have been read, so a
// lying central directory cannot inflate an entry past the limit.
type limitedReadCloser struct {
	rc   io.ReadCloser
	name string
	max  int64
	n    int64
}

func (l *limitedReadCloser) Read(p []byte) (int, error) {
	n, err := l.rc.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		return n, fmt.Errorf("%w: %q exceeds %d bytes", ErrEntryTooLarge, l.name, l.max)
	}
	return n, err
}

func (l *limitedReadCloser) Close() error {
	return l.rc.Close()
}
