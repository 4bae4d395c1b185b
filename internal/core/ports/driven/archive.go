package driven

import (
	"context"
	"iter"

	"github.com/pemre/couchspinner/internal/core/domain"
)

// ArchiveReader opens binary content as an archive.
type ArchiveReader interface {
	// Open parses the archive directory. Entry content is not read.
	// Returns domain.ErrCorruptArchive if content is not a valid container.
	Open(ctx context.Context, content []byte) (Archive, error)
}

// Archive is an opened archive with lazily materialised entries.
type Archive interface {
	// Entries enumerates every entry, directories included, in archive order.
	Entries() iter.Seq[domain.ArchiveEntry]

	// Match returns the file entries whose lowercase extension is one of exts,
	// in archive order. Directory entries are never returned.
	Match(exts ...string) []domain.ArchiveEntry
}
