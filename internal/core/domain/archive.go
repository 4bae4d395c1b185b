package domain

import (
	"io"
	"path"
	"strings"
)

// ArchiveEntry is one entry of an opened archive. Content is materialised
// only when Open or ReadAll is called.
type ArchiveEntry struct {
	// Name is the entry path inside the archive.
	Name string

	// Dir reports whether the entry is a directory.
	Dir bool

	// Size is the uncompressed size declared by the archive.
	Size int64

	open func() (io.ReadCloser, error)
}

// NewArchiveEntry creates an entry whose content is produced by open.
func NewArchiveEntry(name string, dir bool, size int64, open func() (io.ReadCloser, error)) ArchiveEntry {
	return ArchiveEntry{Name: name, Dir: dir, Size: size, open: open}
}

// Ext returns the lowercase extension of the entry name, including the dot.
func (e ArchiveEntry) Ext() string {
	return strings.ToLower(path.Ext(e.Name))
}

// Open returns a reader over the entry content.
func (e ArchiveEntry) Open() (io.ReadCloser, error) {
	if e.open == nil {
		return nil, ErrNotFound
	}
	return e.open()
}

// ReadAll reads the whole entry content.
func (e ArchiveEntry) ReadAll() ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
