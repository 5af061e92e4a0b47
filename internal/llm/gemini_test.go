package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"op":   map[string]any{"type": "string", "enum": []any{"add", "sub"}},
			"a":    map[string]any{"type": "integer"},
			"note": map[string]any{"type": "string", "description": "free text"},
			"steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []string{"op", "a"},
	}

	s := geminiSchema(def)
	require.Len(t, s.Properties, 4)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, genai.TypeString, s.Properties["op"].Type)
	assert.Equal(t, []string{"add", "sub"}, s.Properties["op"].Enum)
	assert.Equal(t, genai.TypeInteger, s.Properties["a"].Type)
	assert.Equal(t, "free text", s.Properties["note"].Description)
	assert.Equal(t, genai.TypeArray, s.Properties["steps"].Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["steps"].Items.Type)
	assert.ElementsMatch(t, []string{"op", "a"}, s.Required)
}

func TestGeminiSchema_UnknownTypeFallsBackToString(t *testing.T) {
	assert.Equal(t, genai.TypeString, geminiSchema(map[string]any{"type": "null"}).Type)
}
