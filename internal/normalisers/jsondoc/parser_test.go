package jsondoc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pemre/couchspinner/internal/core/domain"
)

func TestNew(t *testing.T) {
	parser := New()
	require.NotNil(t, parser)
	assert.IsType(t, &Parser{}, parser)
}

func TestParse_Object(t *testing.T) {
	doc, err := New().Parse(`{"name":"Ada","id":12345678901234567890,"tags":["a",true,null]}`)
	require.NoError(t, err)

	root, ok := doc.Root.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", root["name"])
	assert.Equal(t, json.Number("12345678901234567890"), root["id"])
	assert.Equal(t, []any{"a", true, nil}, root["tags"])
}

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected any
	}{
		{"array", `[1, 2]`, []any{json.Number("1"), json.Number("2")}},
		{"string", `"hi"`, "hi"},
		{"number", `3.25`, json.Number("3.25")},
		{"null", `null`, nil},
		{"surrounding whitespace", "  \n {} \n\t", map[string]any{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := New().Parse(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, doc.Root)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"truncated", `{"a": [1, 2`},
		{"trailing comma", `{"a": 1,}`},
		{"single quotes", `{'a': 1}`},
		{"trailing garbage", `{"a": 1} x`},
		{"two values", `{} {}`},
		{"byte order mark", "\ufeff{}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New().Parse(tc.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedDocument)

			var malformed *domain.MalformedDocumentError
			require.ErrorAs(t, err, &malformed)
			assert.NotNil(t, malformed.Err)
		})
	}
}

func TestSerialise_RoundTrip(t *testing.T) {
	parser := New()
	original, err := parser.Parse(`{"host_couch_visits":[{"surfer":{"id":42,"profile":{"username":"ada"}}}],"ratio":0.5}`)
	require.NoError(t, err)

	text, err := parser.Serialise(original)
	require.NoError(t, err)

	restored, err := parser.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestSerialise_Unsupported(t *testing.T) {
	_, err := New().Serialise(domain.Document{Root: map[string]any{"ch": make(chan int)}})
	assert.Error(t, err)
}
