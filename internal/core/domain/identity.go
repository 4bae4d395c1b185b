package domain

import "sort"

// AbsentPersonID is the index key shared by every record without a usable
// person id. Such records collapse onto one slot; the last one wins.
const AbsentPersonID = ""

// Identity is the display identity of a person met through a couch visit.
type Identity struct {
	PersonID    string `json:"personId"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
}

// IdentityIndex maps a person id to its identity.
type IdentityIndex map[string]Identity

// Lookup returns the identity for a person id.
func (idx IdentityIndex) Lookup(personID string) (Identity, bool) {
	id, ok := idx[personID]
	return id, ok
}

// Sorted returns the identities ordered by person id.
func (idx IdentityIndex) Sorted() []Identity {
	out := make([]Identity, 0, len(idx))
	for _, id := range idx {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PersonID < out[j].PersonID
	})
	return out
}

// VisitSchema names the keys walked to find visit records and the person
// each record refers to.
type VisitSchema struct {
	// HostVisits is the top-level collection of visits where the user hosted.
	HostVisits string

	// SurfVisits is the top-level collection of visits where the user surfed.
	SurfVisits string

	// PersonKeys are the alternative keys of the person sub-object,
	// in order of preference.
	PersonKeys []string

	// PersonID is the id key within the person sub-object.
	PersonID string

	// Profile is the nested profile key within the person sub-object.
	Profile string

	// Username is the username key within the profile.
	Username string

	// DisplayName is the display name key within the profile.
	DisplayName string
}

// DefaultVisitSchema returns the key layout of the couch-surfing export.
func DefaultVisitSchema() VisitSchema {
	return VisitSchema{
		HostVisits:  "host_couch_visits",
		SurfVisits:  "surf_couch_visits",
		PersonKeys:  []string{"surfer", "host"},
		PersonID:    "id",
		Profile:     "profile",
		Username:    "username",
		DisplayName: "display_name",
	}
}

// PersonKey renders a raw person id value as an index key.
func PersonKey(v any) string {
	if s, ok := scalarText(v); ok {
		return s
	}
	return AbsentPersonID
}
