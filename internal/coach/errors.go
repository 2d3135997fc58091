package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/interviewer/internal/llm"
)

// ErrBlankAnswer is returned when an evaluation is requested for an empty
// or whitespace-only answer. No remote call is made.
var ErrBlankAnswer = errors.New("answer is blank")

// Reason classifies a failed call for display.
type Reason string

const (
	ReasonTimeout         Reason = "timeout"
	ReasonRateLimited     Reason = "rate_limited"
	ReasonUnavailable     Reason = "unavailable"
	ReasonAuth            Reason = "auth"
	ReasonRejected        Reason = "rejected"
	ReasonInvalidResponse Reason = "invalid_response"
	ReasonCanceled        Reason = "canceled"
	ReasonUnknown         Reason = "unknown"
)

// CallError wraps a failed completion call with the operation that made it.
type CallError struct {
	Op  string // "question", "hint", "solution", "evaluation", "scorecard"
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// Reason reports why the call failed.
func (e *CallError) Reason() Reason {
	var (
		rl    *llm.ErrRateLimit
		auth  *llm.ErrAuth
		rej   *llm.ErrRequestRejected
		inv   *llm.ErrInvalidResponse
		trunc *llm.ErrMaxTokensExceeded
		down  *llm.ErrProviderUnavailable
	)
	switch {
	case errors.Is(e.Err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(e.Err, context.Canceled):
		return ReasonCanceled
	case errors.As(e.Err, &rl):
		return ReasonRateLimited
	case errors.As(e.Err, &auth):
		return ReasonAuth
	case errors.As(e.Err, &rej):
		return ReasonRejected
	case errors.As(e.Err, &inv), errors.As(e.Err, &trunc):
		return ReasonInvalidResponse
	case errors.As(e.Err, &down):
		return ReasonUnavailable
	}
	return ReasonUnknown
}

// Message is a short user-facing description of the failure.
func (e *CallError) Message() string {
	switch e.Reason() {
	case ReasonTimeout:
		return "The model took too long to answer. Please try again."
	case ReasonRateLimited:
		return "The model is rate limiting requests. Wait a moment and try again."
	case ReasonAuth:
		return "The model provider rejected the API key."
	case ReasonRejected:
		var rej *llm.ErrRequestRejected
		if errors.As(e.Err, &rej) {
			return fmt.Sprintf("The model provider rejected the request (HTTP %d). Check the model name and settings.", rej.Status)
		}
	case ReasonInvalidResponse:
		return "The model returned an unusable reply. Please try again."
	case ReasonCanceled:
		return "The request was cancelled."
	case ReasonUnavailable:
		return "The model provider is unavailable. Please try again later."
	}
	return "The request to the model failed."
}

// ReasonOf returns the Reason for err, or ReasonUnknown when err is not a
// *CallError.
func ReasonOf(err error) Reason {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Reason()
	}
	return ReasonUnknown
}
