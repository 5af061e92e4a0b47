package llm

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/egelkids/egel/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller -> resilience -> logging -> base so every attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log logrus.FieldLogger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	return WithResilience(logged, cfg.Retry, cfg.Timeout), nil
}
