// Package jsondoc parses export payloads into document trees.
package jsondoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser handles JSON documents.
type Parser struct{}

// New creates a new JSON document parser.
func New() *Parser {
	return &Parser{}
}

// Parse decodes text into a document tree. Numbers are kept as json.Number
// so large person ids survive unchanged. Only syntax is checked.
func (p *Parser) Parse(text string) (domain.Document, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return domain.Document{}, &domain.MalformedDocumentError{Err: err}
	}

	// A second value or trailing garbage makes the whole text invalid.
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected %v after top-level value", tok)
		}
		return domain.Document{}, &domain.MalformedDocumentError{Err: err}
	}

	return domain.Document{Root: root}, nil
}

// Serialise renders a document as compact JSON.
func (p *Parser) Serialise(doc domain.Document) (string, error) {
	data, err := json.Marshal(doc.Root)
	if err != nil {
		return "", fmt.Errorf("marshalling document: %w", err)
	}
	return string(data), nil
}
