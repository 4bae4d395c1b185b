package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonKey(t *testing.T) {
	assert.Equal(t, "42", PersonKey(json.Number("42")))
	assert.Equal(t, "abc", PersonKey("abc"))
	assert.Equal(t, "3", PersonKey(float64(3)))
	assert.Equal(t, AbsentPersonID, PersonKey(nil))
	assert.Equal(t, AbsentPersonID, PersonKey(map[string]any{}))
}

func TestIdentityIndex_Lookup(t *testing.T) {
	idx := IdentityIndex{
		"1": {PersonID: "1", Username: "ada", DisplayName: "Ada"},
	}

	id, ok := idx.Lookup("1")
	assert.True(t, ok)
	assert.Equal(t, "ada", id.Username)

	_, ok = idx.Lookup("2")
	assert.False(t, ok)
}

func TestIdentityIndex_Sorted(t *testing.T) {
	idx := IdentityIndex{
		"b": {PersonID: "b"},
		"a": {PersonID: "a"},
		"":  {PersonID: ""},
	}

	sorted := idx.Sorted()
	assert.Equal(t, []string{"", "a", "b"}, []string{sorted[0].PersonID, sorted[1].PersonID, sorted[2].PersonID})
}

func TestDefaultVisitSchema(t *testing.T) {
	s := DefaultVisitSchema()

	assert.Equal(t, "host_couch_visits", s.HostVisits)
	assert.Equal(t, "surf_couch_visits", s.SurfVisits)
	assert.Equal(t, []string{"surfer", "host"}, s.PersonKeys)
	assert.Equal(t, "id", s.PersonID)
	assert.Equal(t, "profile", s.Profile)
}

func TestSessionState_Helpers(t *testing.T) {
	var empty SessionState
	assert.True(t, empty.Empty())
	assert.Empty(t, empty.AssetHandles())

	st := SessionState{
		Document: &Document{Root: map[string]any{}},
		Assets:   []Asset{{Handle: "asset:1"}, {Handle: "asset:2"}},
	}
	assert.False(t, st.Empty())
	assert.Equal(t, []string{"asset:1", "asset:2"}, st.AssetHandles())
}
