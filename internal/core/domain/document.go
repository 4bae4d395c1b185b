package domain

import (
	"encoding/json"
	"strconv"
)

// Document is a parsed export payload: an arbitrary JSON tree made of
// map[string]any, []any, json.Number, string, bool and nil values.
// No schema is enforced; readers use the optional lookups below and treat
// anything missing or mistyped as empty.
type Document struct {
	Root any
}

// Object returns the value at key when v is an object holding an object there.
// Returns an empty (non-nil) map otherwise.
func Object(v any, key string) map[string]any {
	if m, ok := field(v, key).(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Array returns the value at key when v is an object holding an array there.
// Returns nil otherwise.
func Array(v any, key string) []any {
	if a, ok := field(v, key).([]any); ok {
		return a
	}
	return nil
}

// String returns the scalar at key as text. Missing, null and composite
// values yield "".
func String(v any, key string) string {
	s, _ := scalarText(field(v, key))
	return s
}

// Has reports whether v is an object with a non-null value at key.
func Has(v any, key string) bool {
	return field(v, key) != nil
}

func field(v any, key string) any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

// scalarText renders a JSON scalar as text. The boolean result is false
// for null, missing and composite values.
func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
