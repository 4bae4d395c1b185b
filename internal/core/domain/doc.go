// Package domain defines the core entities of couchspinner.
//
// This package is the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawInput: One dropped file before ingestion
//   - ArchiveEntry: A lazily read entry of an export archive
//   - Document: The parsed JSON payload
//   - Asset: An extracted image and its handle
//   - IdentityIndex: Person id to display identity
//   - SessionState: The snapshot shown to the user and cached
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
