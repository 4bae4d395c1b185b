// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ArchiveReader: Opens zip export archives
//   - DocumentParser: Parses and serialises the JSON payload
//   - AssetStore: Holds decoded image bytes behind handles
//   - KeyValueStore: Session-scoped cache storage
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ErrorReporter: Error telemetry. Without it, failures are only logged.
//   - Presenter: Display collaborator. Without it, outcomes are only returned.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
