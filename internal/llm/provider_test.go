package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egelkids/egel/internal/config"
)

func TestMockProvider(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 3}},
		MockResponse{Err: errors.New("boom")},
	)

	resp, err := m.Generate(context.Background(), Request{System: "first"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
	assert.Equal(t, 3, resp.Usage.InputTokens)

	_, err = m.Generate(context.Background(), Request{System: "second"})
	assert.EqualError(t, err, "boom")
	last, ok := m.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "second", last.System)

	_, err = m.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail, "drained queue")

	assert.Equal(t, 3, m.CallCount())
	assert.Equal(t, "mock", m.ModelID())
}

func TestMockProvider_ChecksContent(t *testing.T) {
	schema := &Schema{
		Name: "answer",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"n": map[string]any{"type": "integer"}},
			"required":   []any{"n"},
		},
	}
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":"seven"}`)},
		MockResponse{Content: json.RawMessage(`{"n":`), StopReason: StopMaxTokens},
		MockResponse{Content: json.RawMessage(`{"n":7}`)},
	)
	ctx := context.Background()

	_, err := m.Generate(ctx, Request{Schema: schema})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)

	_, err = m.Generate(ctx, Request{Schema: schema})
	var truncated *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &truncated)

	resp, err := m.Generate(ctx, Request{Schema: schema})
	require.NoError(t, err)
	assert.Equal(t, StopEnd, resp.StopReason)

	_, ok := NewMockProvider().LastRequest()
	assert.False(t, ok)
}

func TestPurposeContext(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	ctx := WithPurpose(context.Background(), PurposeExplain)
	assert.Equal(t, PurposeExplain, PurposeFrom(ctx))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic with key", Config{Provider: ProviderAnthropic, APIKey: "k"}, false},
		{"anthropic no key", Config{Provider: ProviderAnthropic}, true},
		{"openai no key", Config{Provider: ProviderOpenAI}, true},
		{"gemini with key", Config{Provider: ProviderGemini, APIKey: "k"}, false},
		{"openrouter no key", Config{Provider: ProviderOpenRouter}, true},
		{"mock", Config{Provider: ProviderMock}, false},
		{"unknown", Config{Provider: "llama"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func clearKeys(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearKeys(t)
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider, "openai outranks anthropic")
	assert.Equal(t, "o", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestResolve(t *testing.T) {
	clearKeys(t)

	_, ok := Resolve(config.LLMConfig{Provider: "auto"})
	assert.False(t, ok, "auto with no keys")

	t.Setenv("GEMINI_API_KEY", "g")
	cfg, ok := Resolve(config.LLMConfig{Provider: "auto", Model: "gemini-pro", MaxAttempts: 5})
	require.True(t, ok)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-pro", cfg.Model)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)

	cfg, ok = Resolve(config.LLMConfig{
		Provider: ProviderAnthropic,
		APIKey:   "key",
		Timeout:  5 * time.Second,
	})
	require.True(t, ok)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "claude-haiku", cfg.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("claude-haiku")
	require.NotNil(t, c)
	assert.InDelta(t, 6.0, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.Nil(t, LookupCost("unknown-model"))
}
