package interview

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewer/internal/screen"
	"github.com/abhisek/interviewer/internal/session"
	"github.com/abhisek/interviewer/internal/ui/components"
	"github.com/abhisek/interviewer/internal/ui/layout"
)

// outcomeMsg carries the result of a hint, solution or evaluation press.
type outcomeMsg struct {
	Outcome session.Outcome
}

type focusArea int

const (
	focusAnswer focusArea = iota
	focusMenu
)

// InterviewScreen shows the stored question and the actions on it.
type InterviewScreen struct {
	sess     *session.Session
	heading  string
	question string

	answer components.AnswerBox
	menu   components.Menu
	focus  focusArea

	pending bool
	spinner spinner.Model
	result  *session.Outcome
}

var _ screen.Screen = (*InterviewScreen)(nil)
var _ screen.KeyHintProvider = (*InterviewScreen)(nil)

// New creates the interview screen for a freshly imported question.
func New(sess *session.Session, heading, question string) *InterviewScreen {
	s := &InterviewScreen{
		sess:     sess,
		heading:  heading,
		question: question,
		answer:   components.NewAnswerBox("Type your answer here...", 60, 6),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Get Hint", Action: s.run(func(ctx context.Context, _ string) session.Outcome {
			return sess.Hint(ctx)
		})},
		{Label: "Show Solution", Action: s.run(func(ctx context.Context, _ string) session.Outcome {
			return sess.Solution(ctx)
		})},
		{Label: "Evaluate Answer", Action: s.run(func(ctx context.Context, answer string) session.Outcome {
			return sess.Evaluate(ctx, answer)
		})},
	})
	s.menu.Blurred = true
	return s
}

func (s *InterviewScreen) Init() tea.Cmd {
	return s.answer.Focus()
}

func (s *InterviewScreen) Title() string {
	return "Interview"
}

func (s *InterviewScreen) KeyHints() []layout.KeyHint {
	if s.pending {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	if s.focus == focusMenu {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Run"},
			{Key: "Tab", Description: "Answer"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Actions"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *InterviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		s.pending = false
		s.result = &msg.Outcome
		return s, nil

	case spinner.TickMsg:
		if !s.pending {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.pending {
			return s, nil
		}
		if msg.String() == "tab" {
			return s, s.toggleFocus()
		}
		var cmd tea.Cmd
		if s.focus == focusMenu {
			s.menu, cmd = s.menu.Update(msg)
		} else {
			s.answer, cmd = s.answer.Update(msg)
		}
		return s, cmd
	}

	// Cursor blink and other textarea messages.
	var cmd tea.Cmd
	s.answer, cmd = s.answer.Update(msg)
	return s, cmd
}

func (s *InterviewScreen) toggleFocus() tea.Cmd {
	if s.focus == focusAnswer {
		s.focus = focusMenu
		s.answer.Blur()
		s.menu.Blurred = false
		return nil
	}
	s.focus = focusAnswer
	s.menu.Blurred = true
	return s.answer.Focus()
}

// run wraps a session action as a menu action. The answer is read when
// the action is pressed. Only one action is in flight at a time.
func (s *InterviewScreen) run(action func(ctx context.Context, answer string) session.Outcome) func() tea.Cmd {
	return func() tea.Cmd {
		if s.pending {
			return nil
		}
		s.pending = true
		s.result = nil
		answer := s.answer.Value()
		return tea.Batch(s.spinner.Tick, func() tea.Msg {
			return outcomeMsg{Outcome: action(context.Background(), answer)}
		})
	}
}
