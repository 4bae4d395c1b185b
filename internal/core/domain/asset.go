package domain

// Asset is an image extracted from an export archive.
type Asset struct {
	// Handle is the opaque reference used to dereference the bytes.
	// It stays valid until the snapshot holding it is replaced.
	Handle string `json:"handle"`

	// SourceName is the archive entry the asset came from.
	SourceName string `json:"sourceName"`

	// MIMEType is the sniffed content type.
	MIMEType string `json:"mimeType,omitempty"`

	// Size is the decoded length in bytes.
	Size int64 `json:"size,omitempty"`
}

// AssetBlob is the dereferenced content behind an asset handle.
type AssetBlob struct {
	Handle   string
	Name     string
	MIMEType string
	Data     []byte
}

// ImageExtensions lists the archive entry extensions treated as assets.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}

// DocumentExtensions lists the archive entry extensions treated as the payload.
var DocumentExtensions = []string{".json"}
