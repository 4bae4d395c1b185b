package services

import (
	"context"
	"errors"

	"github.com/pemre/couchspinner/internal/core/domain"
)

// UserMessage maps an ingestion error to a message fit for display.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNoFiles):
		return "Please drop a file."
	case errors.Is(err, domain.ErrMultipleFiles):
		return "Please drop only one file."
	case errors.Is(err, domain.ErrUnsupportedType):
		return "Unsupported file type. Please drop a .zip export or a .json file."
	case errors.Is(err, domain.ErrCorruptArchive):
		return "The file could not be opened as a zip archive."
	case errors.Is(err, domain.ErrNoDocumentFound):
		return "No JSON file was found in the archive."
	case errors.Is(err, domain.ErrMalformedDocument):
		return "The JSON file could not be parsed."
	case errors.Is(err, domain.ErrAssetDecode):
		return "An image in the archive could not be read."
	case errors.Is(err, domain.ErrIngestionInProgress):
		return "A file is already being processed."
	case errors.Is(err, context.Canceled):
		return "Processing was cancelled."
	default:
		return "Something went wrong while processing the file."
	}
}
