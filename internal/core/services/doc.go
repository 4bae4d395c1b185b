// Package services implements the driving port interfaces.
// Services hold the ingestion logic and orchestrate calls to driven
// ports (archive reader, parser, asset store, session store, reporter,
// presenter).
package services
