package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/egelkids/egel/internal/config"
)

// Provider names accepted by NewProvider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// defaultModels holds the model used when none is configured.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider selects the backend: anthropic, openai, gemini, openrouter
	// or mock.
	Provider string

	// APIKey authenticates against the provider.
	APIKey string

	// Model is a friendly name ("claude-haiku") or a provider model ID.
	Model string

	// BaseURL overrides the API endpoint. Optional.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultConfig returns a Config for provider with default model and
// retry settings.
func DefaultConfig(provider string) Config {
	return Config{
		Provider: provider,
		Model:    defaultModels[provider],
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     8 * time.Second,
		},
		Timeout: 30 * time.Second,
	}
}

// Resolve turns the llm section of the application config into a Config.
// An empty or "auto" provider falls back to DiscoverConfig. The second
// result is false when no provider is available.
func Resolve(s config.LLMConfig) (Config, bool) {
	var cfg Config
	if s.Provider == "" || s.Provider == "auto" {
		discovered, ok := DiscoverConfig()
		if !ok {
			return Config{}, false
		}
		cfg = discovered
	} else {
		cfg = DefaultConfig(s.Provider)
	}

	if s.APIKey != "" {
		cfg.APIKey = s.APIKey
	}
	if s.Model != "" {
		cfg.Model = s.Model
	}
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}
	if s.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = s.MaxAttempts
	}
	return cfg, true
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the
// first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	candidates := []struct {
		env      string
		provider string
	}{
		{"GEMINI_API_KEY", ProviderGemini},
		{"OPENAI_API_KEY", ProviderOpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter},
	}
	for _, p := range candidates {
		if k := os.Getenv(p.env); k != "" {
			cfg := DefaultConfig(p.provider)
			cfg.APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("EGEL_LLM_API_KEY is required for the %s provider", c.Provider)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
