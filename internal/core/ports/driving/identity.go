package driving

import "github.com/pemre/couchspinner/internal/core/domain"

// IdentityService answers questions about the identities of the current snapshot.
type IdentityService interface {
	// Lookup returns the identity for a person id.
	// Returns domain.ErrNotFound if the id is not indexed.
	Lookup(personID string) (domain.Identity, error)

	// List returns all identities ordered by person id.
	List() []domain.Identity

	// Find ranks identities by fuzzy similarity of username or display name.
	Find(query string, limit int) []IdentityMatch
}

// IdentityMatch is a ranked fuzzy lookup result.
type IdentityMatch struct {
	Identity domain.Identity

	// Score is between 0 and 1; higher is closer.
	Score float64
}
