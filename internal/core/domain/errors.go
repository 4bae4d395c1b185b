package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent ingestion failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIngestionInProgress indicates an ingestion is already running.
	// Only driving adapters return it; the orchestrator never queues or rejects.
	ErrIngestionInProgress = errors.New("ingestion in progress")

	// Input Errors.

	// ErrInputCount indicates the number of dropped files was not exactly one.
	ErrInputCount = errors.New("exactly one file is required")

	// ErrNoFiles indicates nothing was dropped.
	ErrNoFiles = fmt.Errorf("%w: no files", ErrInputCount)

	// ErrMultipleFiles indicates more than one file was dropped.
	ErrMultipleFiles = fmt.Errorf("%w: multiple files", ErrInputCount)

	// ErrUnsupportedType indicates the media type is neither archive nor document.
	ErrUnsupportedType = errors.New("unsupported type")

	// Payload Errors.

	// ErrCorruptArchive indicates the content is not a readable zip container.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrNoDocumentFound indicates the archive holds no JSON entry.
	ErrNoDocumentFound = errors.New("no document found in archive")

	// ErrMalformedDocument indicates the document text is not valid JSON.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrAssetDecode indicates an image entry could not be decoded.
	// A single failure aborts the whole asset batch.
	ErrAssetDecode = errors.New("asset decode failed")

	// Cache Errors.

	// ErrCacheIO indicates the session store could not be read or written.
	// Cache errors are recovered locally and never reach the user.
	ErrCacheIO = errors.New("session cache I/O failed")

	// ErrStorageUnavailable indicates the session store is disabled.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrQuotaExceeded indicates a write would exceed the session store quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// UnsupportedTypeError reports the media type that was rejected.
type UnsupportedTypeError struct {
	MediaType string
}

func (e *UnsupportedTypeError) Error() string {
	if e.MediaType == "" {
		return "unsupported type: unknown media type"
	}
	return "unsupported type: " + e.MediaType
}

// Unwrap returns ErrUnsupportedType.
func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}

// MalformedDocumentError captures the parser error behind a malformed document.
type MalformedDocumentError struct {
	Err error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document: %v", e.Err)
}

// Unwrap exposes both the sentinel and the original parse error.
func (e *MalformedDocumentError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}

// AssetDecodeError names the archive entry whose decode failed.
type AssetDecodeError struct {
	Name string
	Err  error
}

func (e *AssetDecodeError) Error() string {
	return fmt.Sprintf("decoding asset %q: %v", e.Name, e.Err)
}

// Unwrap exposes both the sentinel and the underlying error.
func (e *AssetDecodeError) Unwrap() []error {
	return []error{ErrAssetDecode, e.Err}
}

// CacheIOError describes a failed session store operation.
type CacheIOError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheIOError) Error() string {
	return fmt.Sprintf("session cache %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap exposes both the sentinel and the underlying error.
func (e *CacheIOError) Unwrap() []error {
	return []error{ErrCacheIO, e.Err}
}
