package llm

import (
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "openai/gpt-3.5-turbo"

	// openRouterTitle names the app on the OpenRouter dashboard.
	openRouterTitle = "interviewer"
)

// OpenRouterProvider is the chat completions client pointed at OpenRouter.
// Model IDs are vendor-qualified ("openai/gpt-3.5-turbo") and sent as-is.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenRouterBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenRouterModel
	}

	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = cfg.BaseURL
	cc.HTTPClient = &http.Client{Transport: titled{http.DefaultTransport}}
	return &OpenRouterProvider{&OpenAIProvider{
		client: openai.NewClientWithConfig(cc),
		model:  cfg.Model,
	}}, nil
}

// titled adds OpenRouter's app attribution header to every request.
type titled struct {
	next http.RoundTripper
}

func (t titled) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Title", openRouterTitle)
	return t.next.RoundTrip(req)
}
