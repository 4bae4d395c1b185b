package domain

import (
	"strings"
	"time"
)

// MediaType is the declared content type of a dropped file.
type MediaType string

// Accepted media types.
const (
	// MediaTypeArchive is a zip export archive.
	MediaTypeArchive MediaType = "application/zip"

	// MediaTypeDocument is a bare JSON export.
	MediaTypeDocument MediaType = "application/json"
)

// mediaTypeAliases maps alternative declarations onto the accepted types.
var mediaTypeAliases = map[string]MediaType{
	"application/zip":              MediaTypeArchive,
	"application/x-zip":            MediaTypeArchive,
	"application/x-zip-compressed": MediaTypeArchive,
	"application/json":             MediaTypeDocument,
	"text/json":                    MediaTypeDocument,
}

// ParseMediaType normalises a declared content type.
// Parameters such as "; charset=utf-8" are ignored.
// Returns false if the type is neither archive nor document.
func ParseMediaType(s string) (MediaType, bool) {
	base, _, _ := strings.Cut(s, ";")
	mt, ok := mediaTypeAliases[strings.ToLower(strings.TrimSpace(base))]
	return mt, ok
}

// String returns the string representation.
func (m MediaType) String() string {
	return string(m)
}

// RawInput is one dropped file. It exists only for the duration of one
// ingestion call.
type RawInput struct {
	// Name is the file name as supplied by the user.
	Name string

	// MediaType is the declared content type, unnormalised.
	MediaType string

	// Content is the raw bytes.
	Content []byte

	// ModTime is the file's last-modified timestamp, if known.
	ModTime *time.Time
}
