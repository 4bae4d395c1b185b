package driven

import "github.com/pemre/couchspinner/internal/core/domain"

// DocumentParser turns decoded text into a document tree.
type DocumentParser interface {
	// Parse checks syntax only. Failures are *domain.MalformedDocumentError.
	Parse(text string) (domain.Document, error)

	// Serialise renders a document back to text for caching.
	Serialise(doc domain.Document) (string, error)
}
