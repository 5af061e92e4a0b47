package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(Config{
		APIKey:  "test-key",
		Model:   "claude-haiku",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return p
}

func anthropicErrorHandler(status int, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": `{"col":0,"text":"7 + 5 = 12, write 2 carry 1"}`},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "Explain column addition.",
		Messages:  []Message{{Role: RoleUser, Content: "47 + 25"}},
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Usage.InputTokens)
	assert.Equal(t, 80, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.JSONEq(t, `{"col":0,"text":"7 + 5 = 12, write 2 carry 1"}`, string(resp.Content))
}

func TestAnthropicProvider_Errors(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicErrorHandler(http.StatusTooManyRequests, "rate_limit_error"))
		_, err := p.Generate(context.Background(), Request{MaxTokens: 10})
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})
	t.Run("server error", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicErrorHandler(http.StatusInternalServerError, "api_error"))
		_, err := p.Generate(context.Background(), Request{MaxTokens: 10})
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})
	t.Run("bad request is not transient", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicErrorHandler(http.StatusBadRequest, "invalid_request_error"))
		_, err := p.Generate(context.Background(), Request{MaxTokens: 10})
		require.Error(t, err)
		assert.False(t, isTransient(err))
	})
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		input  string
		models map[string]string
		want   string
	}{
		{"claude-sonnet", anthropicModels, "claude-sonnet-4-20250514"},
		{"claude-haiku", anthropicModels, "claude-haiku-4-5-20251001"},
		{"claude-opus-4-1", anthropicModels, "claude-opus-4-1"},
		{"gemini-flash", geminiModels, "gemini-2.5-flash"},
		{"gpt-4o-mini", openaiModels, "gpt-4o-mini"},
		{"meta-llama/llama-3-8b", nil, "meta-llama/llama-3-8b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveModel(tt.input, tt.models), tt.input)
	}
}
