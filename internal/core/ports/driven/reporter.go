package driven

import "context"

// ErrorReporter forwards exceptions to an error telemetry collaborator.
// Report must return immediately; delivery is fire-and-forget.
type ErrorReporter interface {
	Report(ctx context.Context, err error, fields map[string]any)
}
