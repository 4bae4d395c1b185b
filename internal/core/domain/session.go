package domain

// SessionState is the externally visible snapshot of the last successful
// ingestion. It is replaced wholesale, never merged.
type SessionState struct {
	// Document is the parsed payload. Nil when nothing has been ingested.
	Document *Document

	// Assets are the images extracted alongside the document.
	Assets []Asset

	// FileDate is the source file's last-modified timestamp as text.
	// Empty when unknown.
	FileDate string

	// Identities is derived from Document and never cached on its own.
	Identities IdentityIndex
}

// Empty reports whether the state holds no document.
func (s SessionState) Empty() bool {
	return s.Document == nil
}

// AssetHandles returns the handles of all assets in the state.
func (s SessionState) AssetHandles() []string {
	handles := make([]string, 0, len(s.Assets))
	for _, a := range s.Assets {
		handles = append(handles, a.Handle)
	}
	return handles
}
