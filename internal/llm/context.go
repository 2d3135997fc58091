package llm

import "context"

// Purposes label each call in the event log and metrics.
const (
	PurposeQuestion   = "question"
	PurposeHint       = "hint"
	PurposeSolution   = "solution"
	PurposeEvaluation = "evaluation"
	PurposeScorecard  = "scorecard"
)

type purposeKey struct{}

func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return "unknown"
}
