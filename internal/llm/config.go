package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openai", "anthropic", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig
	RateLimit  RateLimitConfig

	// Timeout is the maximum duration for a single call including
	// retries and rate-limit waits. Default: 30s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-3.5-turbo"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional. Override for proxies.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "openai/gpt-3.5-turbo"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// RateLimitConfig bounds the outbound request rate. A zero PerSecond
// disables limiting.
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-3.5-turbo",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "openai/gpt-3.5-turbo",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		RateLimit: RateLimitConfig{
			PerSecond: 1,
			Burst:     3,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv overlays INTERVIEWER_* environment variables on the
// defaults. Without INTERVIEWER_LLM_PROVIDER the first provider holding a
// key is chosen; with no INTERVIEWER_* key at all, the vendors' own key
// variables are tried via DiscoverConfig.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	for name, dst := range map[string]*string{
		"INTERVIEWER_LLM_PROVIDER":       &cfg.Provider,
		"INTERVIEWER_ANTHROPIC_API_KEY":  &cfg.Anthropic.APIKey,
		"INTERVIEWER_ANTHROPIC_MODEL":    &cfg.Anthropic.Model,
		"INTERVIEWER_OPENAI_API_KEY":     &cfg.OpenAI.APIKey,
		"INTERVIEWER_OPENAI_MODEL":       &cfg.OpenAI.Model,
		"INTERVIEWER_OPENAI_BASE_URL":    &cfg.OpenAI.BaseURL,
		"INTERVIEWER_GEMINI_API_KEY":     &cfg.Gemini.APIKey,
		"INTERVIEWER_GEMINI_MODEL":       &cfg.Gemini.Model,
		"INTERVIEWER_GEMINI_BASE_URL":    &cfg.Gemini.BaseURL,
		"INTERVIEWER_OPENROUTER_API_KEY": &cfg.OpenRouter.APIKey,
		"INTERVIEWER_OPENROUTER_MODEL":   &cfg.OpenRouter.Model,
	} {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	if err := envParse("INTERVIEWER_LLM_TIMEOUT", &cfg.Timeout, time.ParseDuration); err != nil {
		return Config{}, err
	}
	if err := envParse("INTERVIEWER_LLM_RATE", &cfg.RateLimit.PerSecond, func(v string) (float64, error) {
		return strconv.ParseFloat(v, 64)
	}); err != nil {
		return Config{}, err
	}
	if err := envParse("INTERVIEWER_LLM_BURST", &cfg.RateLimit.Burst, strconv.Atoi); err != nil {
		return Config{}, err
	}

	if os.Getenv("INTERVIEWER_LLM_PROVIDER") != "" {
		if dst := cfg.apiKey(cfg.Provider); dst != nil && *dst == "" {
			*dst = os.Getenv(vendorKeyEnv[cfg.Provider])
		}
		return cfg, nil
	}
	if keyed := cfg.firstKeyedProvider(); keyed != "" {
		cfg.Provider = keyed
		return cfg, nil
	}
	if found, ok := DiscoverConfig(); ok {
		cfg.Provider = found.Provider
		*cfg.apiKey(found.Provider) = found.key(found.Provider)
	}
	return cfg, nil
}

// envParse stores parse(value) in dst when the variable is set.
func envParse[T any](name string, dst *T, parse func(string) (T, error)) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parsed, err := parse(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = parsed
	return nil
}

// providerOrder is the preference used when no provider is named.
var providerOrder = []string{"openai", "anthropic", "gemini", "openrouter"}

// vendorKeyEnv holds each vendor's own API key variable.
var vendorKeyEnv = map[string]string{
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"gemini":     "GEMINI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// apiKey addresses the API key field of provider, or nil if unknown.
func (c *Config) apiKey(provider string) *string {
	switch provider {
	case "openai":
		return &c.OpenAI.APIKey
	case "anthropic":
		return &c.Anthropic.APIKey
	case "gemini":
		return &c.Gemini.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

func (c Config) key(provider string) string {
	if p := c.apiKey(provider); p != nil {
		return *p
	}
	return ""
}

func (c Config) firstKeyedProvider() string {
	for _, p := range providerOrder {
		if c.key(p) != "" {
			return p
		}
	}
	return ""
}

// DiscoverConfig looks for OPENAI_API_KEY, ANTHROPIC_API_KEY,
// GEMINI_API_KEY and OPENROUTER_API_KEY in that order and configures the
// first provider found.
func DiscoverConfig() (Config, bool) {
	for _, p := range providerOrder {
		if k := os.Getenv(vendorKeyEnv[p]); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = p
			*cfg.apiKey(p) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate fails when the selected provider has no credential.
func (c Config) Validate() error {
	switch c.Provider {
	case "mock":
	case "openai", "anthropic", "gemini", "openrouter":
		if c.key(c.Provider) == "" {
			return fmt.Errorf("INTERVIEWER_%s_API_KEY (or %s) is required for the %s provider",
				strings.ToUpper(c.Provider), vendorKeyEnv[c.Provider], c.Provider)
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("LLM timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
