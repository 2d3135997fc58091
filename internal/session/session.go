// Package session holds per-user interview state and the actions that
// drive it. Every front end talks to a Session; none of them keep state of
// their own.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/chart"
	"github.com/abhisek/interviewer/internal/coach"
)

// Deps are the collaborators shared by all sessions of a process.
type Deps struct {
	Coach   *coach.Coach
	Charts  *chart.Generator
	Catalog *catalog.Catalog
	Logger  *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Session is one user's interview. Actions run one at a time; readers may
// inspect the state while an action is in flight.
type Session struct {
	ID string

	deps Deps

	act sync.Mutex // serializes actions

	mu         sync.Mutex // guards state and lastActive
	state      State
	lastActive time.Time
}

// New creates an empty session.
func New(id string, deps Deps) *Session {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	return &Session{ID: id, deps: deps, lastActive: deps.Now()}
}

// Catalog returns the selection sets the session validates against.
func (s *Session) Catalog() *catalog.Catalog {
	return s.deps.Catalog
}

// Question returns the stored question, if any.
func (s *Session) Question() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Question()
}

// Phase reports whether a question has been imported.
func (s *Session) Phase() SessionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase()
}

// LastActive returns when the session last ran an action.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Snapshot is a read-only view of the session for display.
type Snapshot struct {
	ID        string             `json:"id"`
	Phase     SessionPhase       `json:"phase"`
	Question  string             `json:"question,omitempty"`
	Selection *catalog.Selection `json:"selection,omitempty"`
	Heading   string             `json:"heading,omitempty"`
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{ID: s.ID, Phase: s.state.Phase()}
	if q, ok := s.state.Question(); ok {
		sel := s.state.Selection()
		snap.Question = q
		snap.Selection = &sel
		snap.Heading = HeadingFor(ActionImport, sel)
	}
	return snap
}

// Import generates a question for sel and stores it, replacing any
// previous one. On failure the previous question is kept.
func (s *Session) Import(ctx context.Context, sel catalog.Selection) Outcome {
	s.act.Lock()
	defer s.act.Unlock()
	s.touch()

	if err := s.deps.Catalog.Validate(sel); err != nil {
		return failed(ActionImport, err)
	}

	q, err := s.deps.Coach.GenerateQuestion(ctx, sel, s.deps.Catalog.IsChartMode(sel))
	if err != nil {
		return s.fail(ActionImport, err)
	}

	s.mu.Lock()
	s.state.store(sel, q, s.deps.Now())
	s.mu.Unlock()

	s.deps.Logger.Debug("question imported", "session", s.ID, "selection", sel.String())
	return succeeded(ActionImport, HeadingFor(ActionImport, sel), q)
}

// Chart renders a fresh random chart. It is only available when sel is
// in chart mode and never changes the session state.
func (s *Session) Chart(sel catalog.Selection) (Outcome, *chart.Result) {
	s.act.Lock()
	defer s.act.Unlock()
	s.touch()

	if err := s.deps.Catalog.Validate(sel); err != nil {
		return failed(ActionChart, err), nil
	}
	if !s.deps.Catalog.IsChartMode(sel) {
		return failed(ActionChart, ErrNotChartMode), nil
	}

	res, err := s.deps.Charts.Generate()
	if err != nil {
		s.deps.Logger.Error("chart render failed", "session", s.ID, "error", err)
		return failed(ActionChart, err), nil
	}
	return succeeded(ActionChart, "", res.Caption), res
}

// Hint asks for a hint on the stored question.
func (s *Session) Hint(ctx context.Context) Outcome {
	return s.ask(ActionHint, func(q string) (string, error) {
		return s.deps.Coach.GenerateHint(ctx, q)
	})
}

// Solution asks for a model answer to the stored question.
func (s *Session) Solution(ctx context.Context) Outcome {
	return s.ask(ActionSolution, func(q string) (string, error) {
		return s.deps.Coach.GenerateSolution(ctx, q)
	})
}

// Evaluate grades answer against the stored question. A blank answer
// yields a warning without a remote call.
func (s *Session) Evaluate(ctx context.Context, answer string) Outcome {
	if coach.IsBlank(answer) {
		if _, ok := s.Question(); ok {
			return warned(ActionEvaluate, BlankAnswerWarning, coach.ErrBlankAnswer)
		}
	}
	return s.ask(ActionEvaluate, func(q string) (string, error) {
		return s.deps.Coach.EvaluateAnswer(ctx, q, answer)
	})
}

// Scorecard is Evaluate with a structured result in Outcome.Scorecard.
func (s *Session) Scorecard(ctx context.Context, answer string) Outcome {
	s.act.Lock()
	defer s.act.Unlock()
	s.touch()

	q, ok := s.Question()
	if !ok {
		return failed(ActionScorecard, ErrNoQuestion)
	}
	if coach.IsBlank(answer) {
		return warned(ActionScorecard, BlankAnswerWarning, coach.ErrBlankAnswer)
	}

	sc, err := s.deps.Coach.EvaluateScorecard(ctx, q, answer)
	if err != nil {
		return s.fail(ActionScorecard, err)
	}
	o := succeeded(ActionScorecard, HeadingFor(ActionScorecard, catalog.Selection{}), sc.String())
	o.Scorecard = sc
	return o
}

// ask runs a display-only action against the stored question.
func (s *Session) ask(a Action, call func(question string) (string, error)) Outcome {
	s.act.Lock()
	defer s.act.Unlock()
	s.touch()

	q, ok := s.Question()
	if !ok {
		return failed(a, ErrNoQuestion)
	}

	text, err := call(q)
	if err != nil {
		return s.fail(a, err)
	}
	return succeeded(a, HeadingFor(a, catalog.Selection{}), text)
}

func (s *Session) fail(a Action, err error) Outcome {
	o := failed(a, err)
	s.deps.Logger.Warn("model call failed",
		"session", s.ID,
		"action", string(a),
		"reason", string(o.Reason),
		"error", err,
	)
	return o
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.deps.Now()
	s.mu.Unlock()
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
