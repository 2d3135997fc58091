package session

import (
	"errors"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/coach"
)

// Action names a user action.
type Action string

const (
	ActionImport    Action = "import"
	ActionChart     Action = "chart"
	ActionHint      Action = "hint"
	ActionSolution  Action = "solution"
	ActionEvaluate  Action = "evaluate"
	ActionScorecard Action = "scorecard"
)

// Status is the result class of an action.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	default:
		return "failed"
	}
}

// MarshalText renders the status by name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// BlankAnswerWarning is shown when Evaluate is pressed with no answer.
const BlankAnswerWarning = "Please provide an answer before evaluating."

var (
	// ErrNoQuestion is returned by actions that need an imported question.
	ErrNoQuestion = errors.New("no question imported")

	// ErrNotChartMode is returned when a chart is requested for a regular topic.
	ErrNotChartMode = errors.New("charts are only available for the chart topic")
)

// Outcome is the result of one action. Text holds the reply on success,
// the warning on StatusWarning and a user-facing message on StatusFailed.
type Outcome struct {
	Action    Action           `json:"action"`
	Status    Status           `json:"status"`
	Heading   string           `json:"heading,omitempty"`
	Text      string           `json:"text"`
	Reason    coach.Reason     `json:"reason,omitempty"`
	Scorecard *coach.Scorecard `json:"scorecard,omitempty"`
	Err       error            `json:"-"`
}

// OK reports whether the action succeeded.
func (o Outcome) OK() bool { return o.Status == StatusOK }

// HeadingFor returns the label displayed above a successful reply.
func HeadingFor(a Action, sel catalog.Selection) string {
	switch a {
	case ActionImport:
		return "Question (" + sel.String() + "):"
	case ActionHint:
		return "Hint:"
	case ActionSolution:
		return "Model Answer:"
	case ActionEvaluate, ActionScorecard:
		return "Evaluation Result"
	}
	return ""
}

func succeeded(a Action, heading, text string) Outcome {
	return Outcome{Action: a, Status: StatusOK, Heading: heading, Text: text}
}

func warned(a Action, text string, err error) Outcome {
	return Outcome{Action: a, Status: StatusWarning, Text: text, Err: err}
}

// failed builds a failure outcome. Remote failures carry a reason and the
// friendly message; local failures show the error itself.
func failed(a Action, err error) Outcome {
	o := Outcome{Action: a, Status: StatusFailed, Text: err.Error(), Err: err}
	var ce *coach.CallError
	if errors.As(err, &ce) {
		o.Reason = ce.Reason()
		o.Text = ce.Message()
	}
	return o
}
