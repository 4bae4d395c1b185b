package driven

import (
	"context"

	"github.com/pemre/couchspinner/internal/core/domain"
)

// Presenter is the presentation collaborator that displays ingestion outcomes.
type Presenter interface {
	// Present receives a freshly committed snapshot.
	Present(ctx context.Context, state domain.SessionState)

	// ScrollToTop asks the display to reset its viewport after a new snapshot.
	ScrollToTop()

	// NotifyError shows a human-readable failure message.
	NotifyError(message string)
}
