package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/llm"
)

var sqlSelection = catalog.Selection{Role: "Data Analyst", Level: "Beginner", Topic: "SQL"}

// purposeRecorder captures the purpose label of each call.
type purposeRecorder struct {
	llm.Provider
	purposes []string
}

func (p *purposeRecorder) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.purposes = append(p.purposes, llm.PurposeFrom(ctx))
	return p.Provider.Generate(ctx, req)
}

func TestGenerateQuestion(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextReply("Write a query to find duplicate rows."))
	rec := &purposeRecorder{Provider: mock}
	c := New(rec, DefaultConfig())

	q, err := c.GenerateQuestion(context.Background(), sqlSelection, false)
	require.NoError(t, err)
	assert.Equal(t, "Write a query to find duplicate rows.", q)

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, "As a professional interviewer, give a technical interview question at Beginner level for a Data Analyst role about SQL.", req.System)
	assert.Empty(t, req.Messages)
	assert.Nil(t, req.Schema)
	assert.Equal(t, 1024, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Equal(t, []string{llm.PurposeQuestion}, rec.purposes)
}

func TestGenerateQuestionChartMode(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextReply("Describe the chart."))
	c := New(mock, DefaultConfig())

	sel := catalog.Selection{Role: "Data Scientist", Level: "Advanced", Topic: "Chart Description"}
	_, err := c.GenerateQuestion(context.Background(), sel, true)
	require.NoError(t, err)

	req, _ := mock.LastCall()
	assert.Equal(t, "As a professional interviewer, generate a random chart and ask the candidate to describe it. The difficulty level is Advanced.", req.System)
}

func TestHintAndSolutionUseQuestion(t *testing.T) {
	const q = "Write a query to find duplicate rows."
	mock := llm.NewMockProvider(
		llm.TextReply("Think about GROUP BY and COUNT."),
		llm.TextReply("SELECT col, COUNT(*) FROM t GROUP BY col HAVING COUNT(*) > 1"),
	)
	rec := &purposeRecorder{Provider: mock}
	c := New(rec, DefaultConfig())

	hint, err := c.GenerateHint(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "Think about GROUP BY and COUNT.", hint)
	assert.Equal(t, "Provide a brief hint to guide the interviewee in answering this interview question: "+q, mock.Calls[0].System)

	sol, err := c.GenerateSolution(context.Background(), q)
	require.NoError(t, err)
	assert.Contains(t, sol, "HAVING")
	assert.Equal(t, "Provide a model answer with explanation for this interview question: "+q, mock.Calls[1].System)

	assert.Equal(t, []string{llm.PurposeHint, llm.PurposeSolution}, rec.purposes)
}

func TestEvaluateAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextReply("Score: 80/100. Good use of GROUP BY."))
	c := New(mock, DefaultConfig())

	out, err := c.EvaluateAnswer(context.Background(), "Q?", "Use GROUP BY with HAVING COUNT(*) > 1")
	require.NoError(t, err)
	assert.Equal(t, "Score: 80/100. Good use of GROUP BY.", out)

	req, _ := mock.LastCall()
	assert.Contains(t, req.System, "**Interview Question:** Q?")
	assert.Contains(t, req.System, "**Answer:** Use GROUP BY with HAVING COUNT(*) > 1")
	assert.Contains(t, req.System, "scale of 100")
}

func TestEvaluateBlankAnswerSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextReply("unused"))
	c := New(mock, DefaultConfig())

	for _, answer := range []string{"", "   ", "\n\t "} {
		_, err := c.EvaluateAnswer(context.Background(), "Q?", answer)
		assert.ErrorIs(t, err, ErrBlankAnswer)

		_, err = c.EvaluateScorecard(context.Background(), "Q?", answer)
		assert.ErrorIs(t, err, ErrBlankAnswer)
	}
	assert.Zero(t, mock.CallCount())
}

func TestEmptyReplyIsInvalid(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextReply("  \n"))
	c := New(mock, DefaultConfig())

	_, err := c.GenerateHint(context.Background(), "Q?")
	require.Error(t, err)

	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, llm.PurposeHint, ce.Op)
	assert.Equal(t, ReasonInvalidResponse, ce.Reason())
}

func TestCallErrorReasons(t *testing.T) {
	cases := []struct {
		err  error
		want Reason
	}{
		{context.DeadlineExceeded, ReasonTimeout},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), ReasonTimeout},
		{context.Canceled, ReasonCanceled},
		{&llm.ErrRateLimit{RetryAfter: time.Second}, ReasonRateLimited},
		{&llm.ErrAuth{Err: errors.New("401")}, ReasonAuth},
		{&llm.ErrRequestRejected{Status: 404, Err: errors.New("no such model")}, ReasonRejected},
		{&llm.ErrInvalidResponse{Err: errors.New("bad")}, ReasonInvalidResponse},
		{&llm.ErrMaxTokensExceeded{}, ReasonInvalidResponse},
		{&llm.ErrProviderUnavailable{Err: errors.New("503")}, ReasonUnavailable},
		{errors.New("boom"), ReasonUnknown},
	}
	for _, tc := range cases {
		t.Run(string(tc.want), func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Err: tc.err})
			c := New(mock, DefaultConfig())

			_, err := c.GenerateSolution(context.Background(), "Q?")
			require.Error(t, err)
			assert.Equal(t, tc.want, ReasonOf(err))

			var ce *CallError
			require.ErrorAs(t, err, &ce)
			assert.NotEmpty(t, ce.Message())
			assert.Contains(t, ce.Error(), "solution request failed")
		})
	}
}

func TestRejectedRequestMessageNamesStatus(t *testing.T) {
	ce := &CallError{Op: llm.PurposeQuestion, Err: &llm.ErrRequestRejected{Status: 404, Err: errors.New("model not found")}}
	assert.Contains(t, ce.Message(), "HTTP 404")
	assert.NotContains(t, ce.Message(), "unavailable")
}

func TestReasonOfPlainError(t *testing.T) {
	assert.Equal(t, ReasonUnknown, ReasonOf(errors.New("x")))
	assert.Equal(t, ReasonUnknown, ReasonOf(nil))
}

func TestProviderTimeout(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("late"), Delay: time.Second})
	c := New(llm.WithTimeout(mock, 20*time.Millisecond), DefaultConfig())

	_, err := c.GenerateQuestion(context.Background(), sqlSelection, false)
	require.Error(t, err)
	assert.Equal(t, ReasonTimeout, ReasonOf(err))
}

func TestEvaluateScorecard(t *testing.T) {
	reply := `{"score": 72, "strengths": ["Correct grouping"], "weaknesses": ["No HAVING clause"],
		"suggestions": ["Filter groups with HAVING"], "correct_approach": "GROUP BY col HAVING COUNT(*) > 1"}`
	mock := llm.NewMockProvider(llm.TextReply(reply))
	rec := &purposeRecorder{Provider: mock}
	c := New(rec, DefaultConfig())

	sc, err := c.EvaluateScorecard(context.Background(), "Q?", "GROUP BY col")
	require.NoError(t, err)
	assert.Equal(t, 72, sc.Score)
	assert.Equal(t, []string{"Correct grouping"}, sc.Strengths)
	assert.Equal(t, "GROUP BY col HAVING COUNT(*) > 1", sc.CorrectApproach)
	assert.Equal(t, []string{llm.PurposeScorecard}, rec.purposes)

	req, _ := mock.LastCall()
	require.NotNil(t, req.Schema)
	assert.Equal(t, "answer-scorecard", req.Schema.Name)

	out := sc.String()
	assert.Contains(t, out, "**Score:** 72/100")
	assert.Contains(t, out, "- No HAVING clause")
	assert.Contains(t, out, "**Correct approach**")
}

func TestEvaluateScorecardRejectsNonConformingReply(t *testing.T) {
	cases := map[string]string{
		"not json":      "Score: 70",
		"out of range":  `{"score": 140, "strengths": [], "weaknesses": [], "suggestions": [], "correct_approach": ""}`,
		"missing field": `{"score": 50, "strengths": [], "weaknesses": []}`,
		"extra field":   `{"score": 50, "strengths": [], "weaknesses": [], "suggestions": [], "correct_approach": "", "grade": "B"}`,
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			c := New(llm.NewMockProvider(llm.TextReply(reply)), DefaultConfig())
			_, err := c.EvaluateScorecard(context.Background(), "Q?", "answer")
			require.Error(t, err)
			assert.Equal(t, ReasonInvalidResponse, ReasonOf(err))
		})
	}
}

func TestNewDefaultsMaxTokens(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextReply("ok"))
	c := New(mock, Config{})
	_, err := c.GenerateHint(context.Background(), "Q?")
	require.NoError(t, err)
	assert.Equal(t, 1024, mock.Calls[0].MaxTokens)
	assert.Equal(t, "mock", c.ModelID())
}
