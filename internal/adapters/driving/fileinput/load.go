// Package fileinput turns a path on disk into a dropped file.
package fileinput

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pemre/couchspinner/internal/core/domain"
)

// extMediaTypes maps known extensions to media types. Checked before content
// sniffing so that a broken .json file is reported as malformed, not unsupported.
var extMediaTypes = map[string]string{
	".zip":  string(domain.MediaTypeArchive),
	".json": string(domain.MediaTypeDocument),
}

// Load reads the file at path with its media type and modification time.
func Load(path string) (domain.RawInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.RawInput{}, err
	}
	if info.IsDir() {
		return domain.RawInput{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawInput{}, err
	}

	modTime := info.ModTime()
	return domain.RawInput{
		Name:      filepath.Base(path),
		MediaType: DetectMediaType(path, content),
		Content:   content,
		ModTime:   &modTime,
	}, nil
}

// DetectMediaType determines the media type from the extension, falling back
// to content sniffing. Sniffed types are widened to an accepted parent type
// where one exists, so a zip-based format still reads as a zip archive.
func DetectMediaType(path string, content []byte) string {
	if t, ok := extMediaTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}

	detected := mimetype.Detect(content)
	for m := detected; m != nil; m = m.Parent() {
		if _, ok := domain.ParseMediaType(m.String()); ok {
			return m.String()
		}
	}
	return detected.String()
}
