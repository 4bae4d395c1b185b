package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObject(t *testing.T) {
	inner := map[string]any{"id": json.Number("7")}
	root := map[string]any{"surfer": inner, "host": "not an object"}

	assert.Equal(t, inner, Object(root, "surfer"))
	assert.Equal(t, map[string]any{}, Object(root, "host"))
	assert.Equal(t, map[string]any{}, Object(root, "missing"))
	assert.Equal(t, map[string]any{}, Object([]any{1}, "surfer"))
	assert.NotNil(t, Object(nil, "surfer"))
}

func TestArray(t *testing.T) {
	root := map[string]any{
		"visits": []any{map[string]any{}},
		"other":  map[string]any{},
	}

	assert.Len(t, Array(root, "visits"), 1)
	assert.Nil(t, Array(root, "other"))
	assert.Nil(t, Array(root, "missing"))
	assert.Nil(t, Array("scalar", "visits"))
}

func TestString(t *testing.T) {
	root := map[string]any{
		"name":   "Ada",
		"number": json.Number("12345678901234567890"),
		"float":  1.5,
		"flag":   true,
		"null":   nil,
		"object": map[string]any{},
	}

	assert.Equal(t, "Ada", String(root, "name"))
	assert.Equal(t, "12345678901234567890", String(root, "number"))
	assert.Equal(t, "1.5", String(root, "float"))
	assert.Equal(t, "true", String(root, "flag"))
	assert.Equal(t, "", String(root, "null"))
	assert.Equal(t, "", String(root, "object"))
	assert.Equal(t, "", String(root, "missing"))
}

func TestHas(t *testing.T) {
	root := map[string]any{"a": map[string]any{}, "b": nil}

	assert.True(t, Has(root, "a"))
	assert.False(t, Has(root, "b"))
	assert.False(t, Has(root, "c"))
	assert.False(t, Has(42, "a"))
}
