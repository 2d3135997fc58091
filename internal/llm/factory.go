package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/interviewer/internal/store"
)

// Options carries the collaborators shared by every provider chain.
type Options struct {
	EventRepo store.EventRepo
	Metrics   *Metrics
	Logger    *slog.Logger
}

// NewProvider creates a Provider from configuration, wrapped in the
// middleware chain: timeout → rate limit → retry → metrics → logging → base.
func NewProvider(ctx context.Context, cfg Config, opts Options) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return wrap(base, cfg, opts), nil
}

func wrap(base Provider, cfg Config, opts Options) Provider {
	p := WithLogging(base, cfg.Provider, opts.EventRepo, opts.Logger)
	p = WithMetrics(p, opts.Metrics)
	p = WithRetry(p, cfg.Retry)
	p = WithRateLimit(p, cfg.RateLimit)
	return WithTimeout(p, cfg.Timeout)
}

// NewProviderFromEnv reads configuration from the environment and builds
// the provider chain. It fails when no usable credential is configured.
func NewProviderFromEnv(ctx context.Context, opts Options) (Provider, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, opts)
}
