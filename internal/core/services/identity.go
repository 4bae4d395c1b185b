package services

import (
	"github.com/pemre/couchspinner/internal/core/domain"
)

// BuildIdentityIndex derives the identity index of a document using the
// default visit layout.
func BuildIdentityIndex(doc domain.Document) domain.IdentityIndex {
	return BuildIdentityIndexWith(doc, domain.DefaultVisitSchema())
}

// BuildIdentityIndexWith derives the identity index of a document.
//
// Host visits are walked before surf visits, each in array order, and a later
// record overwrites an earlier one with the same person id. Missing or
// mistyped fields never fail; they yield empty strings or AbsentPersonID.
func BuildIdentityIndexWith(doc domain.Document, schema domain.VisitSchema) domain.IdentityIndex {
	index := make(domain.IdentityIndex)

	for _, collection := range []string{schema.HostVisits, schema.SurfVisits} {
		for _, record := range domain.Array(doc.Root, collection) {
			person := personOf(record, schema.PersonKeys)
			profile := domain.Object(person, schema.Profile)
			id := domain.PersonKey(person[schema.PersonID])

			index[id] = domain.Identity{
				PersonID:    id,
				DisplayName: domain.String(profile, schema.DisplayName),
				Username:    domain.String(profile, schema.Username),
			}
		}
	}

	return index
}

// personOf returns the sub-object under the first key the record carries.
func personOf(record any, keys []string) map[string]any {
	for _, key := range keys {
		if domain.Has(record, key) {
			return domain.Object(record, key)
		}
	}
	return map[string]any{}
}
