package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/interviewer/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: []byte("first reply"), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		TextReply("second reply"),
	)

	resp1, err := mock.Generate(context.Background(), Request{System: "one"})
	require.NoError(t, err)
	assert.Equal(t, "first reply", resp1.Text())
	assert.Equal(t, 10, resp1.Usage.InputTokens)
	assert.Equal(t, "end", resp1.StopReason)

	resp2, err := mock.Generate(context.Background(), Request{System: "two"})
	require.NoError(t, err)
	assert.Equal(t, "second reply", resp2.Text())

	last, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, "two", last.System)
	assert.Equal(t, 2, mock.CallCount())
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)

	_, ok := NewMockProvider().LastCall()
	assert.False(t, ok)
}

func TestMockProvider_DelayHonoursContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: []byte("late"), Delay: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResponseText(t *testing.T) {
	var nilResp *Response
	assert.Equal(t, "", nilResp.Text())
	assert.Equal(t, "  spaced\n", (&Response{Content: []byte("  spaced\n")}).Text())
}

func TestRequestSplit(t *testing.T) {
	system, turns := Request{System: "As a professional interviewer..."}.split()
	assert.Empty(t, system)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "As a professional interviewer..."}}, turns)

	withTurns := Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}
	system, turns = withTurns.split()
	assert.Equal(t, "sys", system)
	assert.Equal(t, withTurns.Messages, turns)

	system, turns = Request{}.split()
	assert.Empty(t, system)
	assert.Empty(t, turns)
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, PurposeHint, PurposeFrom(WithPurpose(ctx, PurposeHint)))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, "INTERVIEWER_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, ""},
		{"openai without key", Config{Provider: "openai"}, "INTERVIEWER_OPENAI_API_KEY"},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, ""},
		{"gemini without key", Config{Provider: "gemini"}, "INTERVIEWER_GEMINI_API_KEY"},
		{"openrouter without key", Config{Provider: "openrouter"}, "INTERVIEWER_OPENROUTER_API_KEY"},
		{"mock needs no key", Config{Provider: "mock"}, ""},
		{"negative timeout", Config{Provider: "mock", Timeout: -time.Second}, "timeout"},
		{"unknown provider", Config{Provider: "unknown"}, "unknown LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"INTERVIEWER_LLM_PROVIDER",
		"INTERVIEWER_OPENAI_API_KEY", "INTERVIEWER_OPENAI_MODEL", "INTERVIEWER_OPENAI_BASE_URL",
		"INTERVIEWER_ANTHROPIC_API_KEY", "INTERVIEWER_ANTHROPIC_MODEL",
		"INTERVIEWER_GEMINI_API_KEY", "INTERVIEWER_GEMINI_MODEL", "INTERVIEWER_GEMINI_BASE_URL",
		"INTERVIEWER_OPENROUTER_API_KEY", "INTERVIEWER_OPENROUTER_MODEL",
		"INTERVIEWER_LLM_TIMEOUT", "INTERVIEWER_LLM_RATE", "INTERVIEWER_LLM_BURST",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearLLMEnv(t)

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Error(t, cfg.Validate(), "no credential configured")
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("INTERVIEWER_OPENAI_API_KEY", "sk-interviewer")
	t.Setenv("INTERVIEWER_OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("INTERVIEWER_LLM_TIMEOUT", "5s")
	t.Setenv("INTERVIEWER_LLM_RATE", "0.5")
	t.Setenv("INTERVIEWER_LLM_BURST", "2")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-interviewer", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, RateLimitConfig{PerSecond: 0.5, Burst: 2}, cfg.RateLimit)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnv_PicksKeyedProvider(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("INTERVIEWER_ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
}

func TestConfigFromEnv_FallsBackToVendorKeys(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)
}

func TestConfigFromEnv_NamedProviderKey(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
	}{
		{
			name:    "vendor key fills named provider",
			env:     map[string]string{"INTERVIEWER_LLM_PROVIDER": "openai", "OPENAI_API_KEY": "sk-vendor"},
			wantKey: "sk-vendor",
		},
		{
			name: "interviewer key wins over vendor key",
			env: map[string]string{
				"INTERVIEWER_LLM_PROVIDER":   "openai",
				"INTERVIEWER_OPENAI_API_KEY": "sk-interviewer",
				"OPENAI_API_KEY":             "sk-vendor",
			},
			wantKey: "sk-interviewer",
		},
		{
			name:    "other vendor key is not borrowed",
			env:     map[string]string{"INTERVIEWER_LLM_PROVIDER": "openai", "ANTHROPIC_API_KEY": "sk-ant"},
			wantKey: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearLLMEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := ConfigFromEnv()
			require.NoError(t, err)
			assert.Equal(t, "openai", cfg.Provider)
			assert.Equal(t, tt.wantKey, cfg.OpenAI.APIKey)
			if tt.wantKey != "" {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestConfigFromEnv_BadDuration(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("INTERVIEWER_LLM_TIMEOUT", "soon")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INTERVIEWER_LLM_TIMEOUT")
}

func TestDiscoverConfig_Priority(t *testing.T) {
	clearLLMEnv(t)
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "openai", cfg.Provider)
}

func TestWithTimeout(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: []byte("late"), Delay: time.Second})
	p := WithTimeout(mock, 10*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	assert.Same(t, Provider(mock), WithTimeout(mock, 0))
}

func TestWithRateLimit(t *testing.T) {
	mock := NewMockProvider(TextReply("a"), TextReply("b"))
	p := WithRateLimit(mock, RateLimitConfig{PerSecond: 0.001, Burst: 1})

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)

	// The bucket is empty and refills far beyond the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())

	assert.Same(t, Provider(mock), WithRateLimit(mock, RateLimitConfig{}))
}

type recordingRepo struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestWithLogging_RecordsEvents(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Content: []byte("Write a query to find duplicate rows."), Usage: Usage{InputTokens: 12, OutputTokens: 9}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
	)
	p := WithLogging(mock, "openai", repo, nil)

	ctx := WithPurpose(context.Background(), PurposeQuestion)
	_, err := p.Generate(ctx, Request{System: "As a professional interviewer"})
	require.NoError(t, err)
	_, err = p.Generate(WithPurpose(context.Background(), PurposeHint), Request{System: "Provide a brief hint"})
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	ok := repo.events[0]
	assert.Equal(t, "openai", ok.Provider)
	assert.Equal(t, "mock", ok.Model)
	assert.Equal(t, PurposeQuestion, ok.Purpose)
	assert.True(t, ok.Success)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, "[system]\nAs a professional interviewer\n\n", ok.RequestBody)
	assert.Equal(t, "Write a query to find duplicate rows.", ok.ResponseBody)

	failed := repo.events[1]
	assert.False(t, failed.Success)
	assert.Equal(t, PurposeHint, failed.Purpose)
	assert.Contains(t, failed.ErrorMessage, "rate limited")
}

func TestWithLogging_StoreFailureIsIgnored(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(TextReply("fine")), "openai", repo, nil)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "fine", resp.Text())
}

func TestWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	mock := NewMockProvider(
		MockResponse{Content: []byte("ok"), Usage: Usage{InputTokens: 100, OutputTokens: 50}},
		MockResponse{Err: &ErrProviderUnavailable{}},
	)
	p := WithMetrics(mock, m)

	ctx := WithPurpose(context.Background(), PurposeSolution)
	_, _ = p.Generate(ctx, Request{})
	_, _ = p.Generate(ctx, Request{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("mock", PurposeSolution, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("mock", PurposeSolution, "error")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.tokensTotal.WithLabelValues("mock", "input")))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.tokensTotal.WithLabelValues("mock", "output")))

	assert.Same(t, Provider(mock), WithMetrics(mock, nil))
}

func TestNewProvider_MockChain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"

	p, err := NewProvider(context.Background(), cfg, Options{EventRepo: store.NopEventRepo{}})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
	_, isTimeout := p.(*TimeoutProvider)
	assert.True(t, isTimeout, "outermost decorator enforces the deadline")
}

func TestNewProvider_MissingKeyFailsFast(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewProvider(context.Background(), cfg, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-3.5-turbo", &ModelCost{0.5, 1.5}},
		{"gpt-3.5-turbo-0125", &ModelCost{0.5, 1.5}},
		{"openai/gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"some-unknown-model", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LookupCost(tt.model), tt.model)
	}

	c := ModelCost{InputPerMTok: 0.5, OutputPerMTok: 1.5}
	assert.InDelta(t, 0.002, c.Cost(1000, 1000), 1e-9)
}
