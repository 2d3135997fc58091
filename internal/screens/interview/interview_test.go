package interview

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/chart"
	"github.com/abhisek/interviewer/internal/coach"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/session"
)

const question = "Write a query to find duplicate rows."

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testScreen(t *testing.T, replies ...llm.MockResponse) (*InterviewScreen, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(append([]llm.MockResponse{llm.TextReply(question)}, replies...)...)
	sess := session.New("tui", session.Deps{
		Coach:  coach.New(mock, coach.DefaultConfig()),
		Charts: chart.NewSeeded(1),
	})
	out := sess.Import(context.Background(), catalog.Selection{Role: "Data Analyst", Level: "Beginner", Topic: "SQL"})
	if !out.OK() {
		t.Fatalf("import failed: %s", out.Text)
	}
	s := New(sess, out.Heading, out.Text)
	s.Init() // focus the answer box; the blink command is not needed
	return s, mock
}

// runAction executes the command from a menu press and feeds the outcome
// back into the screen.
func runAction(t *testing.T, s *InterviewScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a batch")
	}
	for _, c := range batch {
		if msg, ok := c().(outcomeMsg); ok {
			s.Update(msg)
			return
		}
	}
	t.Fatal("no outcome produced")
}

func selectAction(s *InterviewScreen, index int) tea.Cmd {
	if s.focus != focusMenu {
		s.Update(specialKey(tea.KeyTab))
	}
	for s.menu.Selected > 0 {
		s.Update(specialKey(tea.KeyUp))
	}
	for range index {
		s.Update(specialKey(tea.KeyDown))
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	return cmd
}

func TestShowsQuestion(t *testing.T) {
	s, _ := testScreen(t)
	view := s.View(100, 30)
	if !strings.Contains(view, "Question (Data Analyst - Beginner - SQL):") {
		t.Error("expected question heading")
	}
	if !strings.Contains(view, question) {
		t.Error("expected question text")
	}
}

func TestTabTogglesFocus(t *testing.T) {
	s, _ := testScreen(t)
	if s.focus != focusAnswer || !s.menu.Blurred {
		t.Fatal("answer box should start focused")
	}
	s.Update(specialKey(tea.KeyTab))
	if s.focus != focusMenu || s.menu.Blurred || s.answer.Focused() {
		t.Error("tab should move focus to the menu")
	}
	s.Update(specialKey(tea.KeyTab))
	if s.focus != focusAnswer || !s.answer.Focused() {
		t.Error("tab should move focus back to the answer")
	}
}

func TestHintKeepsQuestion(t *testing.T) {
	s, _ := testScreen(t, llm.TextReply("Think about GROUP BY and COUNT."))

	cmd := selectAction(s, 0)
	if !s.pending {
		t.Fatal("expected pending after Get Hint")
	}
	if !strings.Contains(s.View(100, 30), "Thinking...") {
		t.Error("expected Thinking... while pending")
	}
	runAction(t, s, cmd)

	view := s.View(100, 30)
	if !strings.Contains(view, "Hint:") || !strings.Contains(view, "Think about GROUP BY and COUNT.") {
		t.Error("expected hint in result panel")
	}
	if !strings.Contains(view, question) {
		t.Error("question should still be shown")
	}
	if q, _ := s.sess.Question(); q != question {
		t.Errorf("stored question changed to %q", q)
	}
}

func TestEvaluateTypedAnswer(t *testing.T) {
	s, mock := testScreen(t, llm.TextReply("Score: 85/100"))

	for _, r := range "GROUP BY" {
		s.Update(keyPress(r))
	}
	runAction(t, s, selectAction(s, 2))

	last, _ := mock.LastCall()
	if !strings.Contains(last.System, "**Answer:** GROUP BY") {
		t.Errorf("evaluation prompt missing answer: %q", last.System)
	}
	if !strings.Contains(s.View(100, 30), "Score: 85/100") {
		t.Error("expected evaluation in view")
	}
}

func TestEvaluateBlankWarns(t *testing.T) {
	s, mock := testScreen(t)

	runAction(t, s, selectAction(s, 2))
	if s.result == nil || s.result.Status != session.StatusWarning {
		t.Fatalf("expected warning outcome, got %+v", s.result)
	}
	if !strings.Contains(s.View(100, 30), session.BlankAnswerWarning) {
		t.Error("expected blank-answer warning in view")
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected only the import call, got %d", mock.CallCount())
	}
}

func TestFailureIsShownAndRecoverable(t *testing.T) {
	s, _ := testScreen(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}, llm.TextReply("model answer"))

	runAction(t, s, selectAction(s, 1))
	if s.result.Status != session.StatusFailed {
		t.Fatalf("expected failure, got %v", s.result.Status)
	}
	if !strings.Contains(s.View(100, 30), "unavailable") {
		t.Error("expected failure message")
	}

	runAction(t, s, selectAction(s, 1))
	if !strings.Contains(s.View(100, 30), "model answer") {
		t.Error("retrying the action should work")
	}
}

func TestSinglePendingAction(t *testing.T) {
	s, _ := testScreen(t, llm.TextReply("hint"))
	if cmd := selectAction(s, 0); cmd == nil {
		t.Fatal("expected a command")
	}
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("keys should be ignored while a call is pending")
	}
}

func TestKeyHintsFollowFocus(t *testing.T) {
	s, _ := testScreen(t)
	if s.KeyHints()[0].Key != "Tab" {
		t.Error("answer focus should advertise Tab")
	}
	s.Update(specialKey(tea.KeyTab))
	if s.KeyHints()[1].Key != "Enter" {
		t.Error("menu focus should advertise Enter")
	}
}
