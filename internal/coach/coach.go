// Package coach turns interview actions into prompts and sends them to a
// completion provider.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/llm"
)

// Config tunes the completion requests.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the request settings used by every front end.
func DefaultConfig() Config {
	return Config{MaxTokens: 1024, Temperature: 0.7}
}

// Coach sends interview prompts to a provider. Replies are returned
// verbatim.
type Coach struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Coach.
func New(provider llm.Provider, cfg Config) *Coach {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Coach{provider: provider, cfg: cfg}
}

// ModelID reports the model serving requests.
func (c *Coach) ModelID() string {
	return c.provider.ModelID()
}

// GenerateQuestion asks for an interview question for sel.
func (c *Coach) GenerateQuestion(ctx context.Context, sel catalog.Selection, chartMode bool) (string, error) {
	return c.complete(ctx, llm.PurposeQuestion, QuestionPrompt(sel, chartMode))
}

// GenerateHint asks for a brief hint for question.
func (c *Coach) GenerateHint(ctx context.Context, question string) (string, error) {
	return c.complete(ctx, llm.PurposeHint, HintPrompt(question))
}

// GenerateSolution asks for a model answer to question.
func (c *Coach) GenerateSolution(ctx context.Context, question string) (string, error) {
	return c.complete(ctx, llm.PurposeSolution, SolutionPrompt(question))
}

// EvaluateAnswer asks for graded feedback on answer. A blank answer
// returns ErrBlankAnswer without contacting the provider.
func (c *Coach) EvaluateAnswer(ctx context.Context, question, answer string) (string, error) {
	if IsBlank(answer) {
		return "", ErrBlankAnswer
	}
	return c.complete(ctx, llm.PurposeEvaluation, EvaluationPrompt(question, answer))
}

// EvaluateScorecard is EvaluateAnswer with a structured reply.
func (c *Coach) EvaluateScorecard(ctx context.Context, question, answer string) (*Scorecard, error) {
	if IsBlank(answer) {
		return nil, ErrBlankAnswer
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeScorecard)
	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      ScorecardPrompt(question, answer),
		Schema:      scorecardSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return nil, &CallError{Op: llm.PurposeScorecard, Err: err}
	}

	// Providers with native structured output have validated already;
	// this covers the ones without.
	if err := llm.ValidateJSON(scorecardSchema, resp.Content); err != nil {
		return nil, &CallError{Op: llm.PurposeScorecard, Err: err}
	}
	var sc Scorecard
	if err := json.Unmarshal(resp.Content, &sc); err != nil {
		return nil, &CallError{Op: llm.PurposeScorecard, Err: &llm.ErrInvalidResponse{Content: resp.Content, Err: err}}
	}
	return &sc, nil
}

func (c *Coach) complete(ctx context.Context, purpose, prompt string) (string, error) {
	ctx = llm.WithPurpose(ctx, purpose)
	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      prompt,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", &CallError{Op: purpose, Err: err}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &CallError{Op: purpose, Err: &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     errors.New("empty reply"),
		}}
	}
	return text, nil
}

// IsBlank reports whether answer has no non-whitespace content.
func IsBlank(answer string) bool {
	return strings.TrimSpace(answer) == ""
}

// Scorecard is a structured evaluation.
type Scorecard struct {
	Score           int      `json:"score"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Suggestions     []string `json:"suggestions"`
	CorrectApproach string   `json:"correct_approach"`
}

// String renders the scorecard as Markdown.
func (s *Scorecard) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Score:** %d/100\n", s.Score)
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n**%s**\n", title)
		for _, it := range items {
			fmt.Fprintf(&b, "- %s\n", it)
		}
	}
	section("Strengths", s.Strengths)
	section("Weaknesses", s.Weaknesses)
	section("Suggestions", s.Suggestions)
	if s.CorrectApproach != "" {
		fmt.Fprintf(&b, "\n**Correct approach**\n%s\n", s.CorrectApproach)
	}
	return b.String()
}

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

var scorecardSchema = &llm.Schema{
	Name:        "answer-scorecard",
	Description: "Graded feedback on an interview answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":            map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"strengths":        stringList,
			"weaknesses":       stringList,
			"suggestions":      stringList,
			"correct_approach": map[string]any{"type": "string"},
		},
		"required":             []any{"score", "strengths", "weaknesses", "suggestions", "correct_approach"},
		"additionalProperties": false,
	},
}
